package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Student carries only the billing-relevant slice of the student record:
// class membership, guardian contact and the preference flags gating
// optional fees. The full student profile is owned elsewhere.
type Student struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID        snowflake.ID      `gorm:"not null;index:ix_students_tenant_class,priority:1" json:"tenant_id"`
	ClassID         snowflake.ID      `gorm:"not null;index:ix_students_tenant_class,priority:2" json:"class_id"`
	Name            string            `gorm:"type:text;not null" json:"name"`
	GuardianContact string            `gorm:"type:text;not null;default:''" json:"guardian_contact"`
	UsesTransport   bool              `gorm:"not null;default:false" json:"uses_transport"`
	RouteID         *snowflake.ID     `json:"route_id,omitempty"`
	UsesHostel      bool              `gorm:"not null;default:false" json:"uses_hostel"`
	Preferences     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"preferences"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Student) TableName() string { return "students" }

var (
	ErrStudentNotFound   = errors.New("student_not_found")
	ErrNoStudentsInScope = errors.New("no_students_in_scope")
)

// HasPreference reports whether the named boolean preference flag is truthy.
func (s Student) HasPreference(key string) bool {
	if key == "" || s.Preferences == nil {
		return false
	}
	value, ok := s.Preferences[key]
	if !ok {
		return false
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		return typed == "true" || typed == "1" || typed == "yes"
	case float64:
		return typed != 0
	default:
		return false
	}
}
