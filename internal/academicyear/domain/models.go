package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// AcademicYear is the tenant-scoped school-year boundary segmenting invoices
// and fee structures. Its explicit start/end dates are the source of truth
// for mapping a bare month number onto a calendar year.
type AcademicYear struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	StartsOn  time.Time    `gorm:"not null" json:"starts_on"`
	EndsOn    time.Time    `gorm:"not null" json:"ends_on"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AcademicYear) TableName() string { return "academic_years" }

var ErrAcademicYearNotFound = errors.New("academic_year_not_found")

// ResolveYear maps a month number onto the calendar year it falls in within
// this academic year. Months at or after the starting month belong to the
// starting calendar year, earlier months to the ending one.
func (y AcademicYear) ResolveYear(month time.Month) int {
	if month >= y.StartsOn.Month() {
		return y.StartsOn.Year()
	}
	return y.EndsOn.Year()
}

// StartMonth is the first month of the academic year, anchoring the
// quarterly and yearly fee frequency predicates.
func (y AcademicYear) StartMonth() time.Month {
	return y.StartsOn.Month()
}
