package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// FeeCategory classifies a catalog entry. Optional categories are gated by
// student flags, exam fees additionally by the caller's exam-month flag.
type FeeCategory string

const (
	FeeCategoryBase              FeeCategory = "base"
	FeeCategoryOptionalTransport FeeCategory = "optional_transport"
	FeeCategoryOptionalHostel    FeeCategory = "optional_hostel"
	FeeCategoryOptionalOther     FeeCategory = "optional_other"
	FeeCategoryExam              FeeCategory = "exam_fee"

	// Synthetic categories recorded on invoice lines but never configured in
	// a catalog.
	FeeCategoryPenalty FeeCategory = "penalty"
	FeeCategoryLateFee FeeCategory = "late_fee"
)

// FeeFrequency determines which months of the academic year an entry is
// chargeable in.
type FeeFrequency string

const (
	FrequencyMonthly        FeeFrequency = "monthly"
	FrequencyQuarterly      FeeFrequency = "quarterly"
	FrequencyYearly         FeeFrequency = "yearly"
	FrequencySpecificMonths FeeFrequency = "specific_months"
)

// DiscountKind selects how a discount rule computes its value.
type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "percentage"
	DiscountKindFixed      DiscountKind = "fixed"
)

// LateFeeMode selects the overdue penalty formula.
type LateFeeMode string

const (
	LateFeeModeDaily      LateFeeMode = "daily"
	LateFeeModeFixed      LateFeeMode = "fixed"
	LateFeeModePercentage LateFeeMode = "percentage"
)

// FeeStructure scopes a catalog to (tenant, class, academic year). The
// billing engine only reads these; catalog management lives elsewhere.
type FeeStructure struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID       snowflake.ID  `gorm:"not null;uniqueIndex:ux_fee_structures_scope,priority:1" json:"tenant_id"`
	ClassID        snowflake.ID  `gorm:"not null;uniqueIndex:ux_fee_structures_scope,priority:2" json:"class_id"`
	AcademicYearID snowflake.ID  `gorm:"not null;uniqueIndex:ux_fee_structures_scope,priority:3" json:"academic_year_id"`
	LateFee        LateFeeConfig `gorm:"embedded;embeddedPrefix:late_fee_" json:"late_fee"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Entries   []FeeCatalogEntry `gorm:"foreignKey:FeeStructureID" json:"entries"`
	Discounts []DiscountRule    `gorm:"foreignKey:FeeStructureID" json:"discounts"`
}

// TableName sets the database table name.
func (FeeStructure) TableName() string { return "fee_structures" }

// FeeCatalogEntry is one chargeable fee line. Amount is in minor units.
// RouteAmounts overrides Amount per transport route, keyed by route ID.
type FeeCatalogEntry struct {
	ID             snowflake.ID             `gorm:"primaryKey" json:"id"`
	FeeStructureID snowflake.ID             `gorm:"not null;index" json:"fee_structure_id"`
	Name           string                   `gorm:"type:text;not null" json:"name"`
	Category       FeeCategory              `gorm:"type:text;not null" json:"category"`
	Frequency      FeeFrequency             `gorm:"type:text;not null" json:"frequency"`
	Amount         int64                    `gorm:"not null" json:"amount"`
	SpecificMonths datatypes.JSONSlice[int] `gorm:"type:jsonb" json:"specific_months,omitempty"`
	PreferenceKey  string                   `gorm:"type:text;not null;default:''" json:"preference_key,omitempty"`
	RouteAmounts   datatypes.JSONMap        `gorm:"type:jsonb" json:"route_amounts,omitempty"`
	CreatedAt      time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (FeeCatalogEntry) TableName() string { return "fee_catalog_entries" }

// DiscountRule reduces the optional-charge portion of an invoice. Fixed
// discounts carry Amount in minor units; percentage discounts carry Percent.
type DiscountRule struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	FeeStructureID snowflake.ID `gorm:"not null;index" json:"fee_structure_id"`
	Name           string       `gorm:"type:text;not null" json:"name"`
	Kind           DiscountKind `gorm:"type:text;not null" json:"kind"`
	Amount         int64        `gorm:"not null;default:0" json:"amount"`
	Percent        float64      `gorm:"not null;default:0" json:"percent"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (DiscountRule) TableName() string { return "discount_rules" }

// LateFeeConfig is embedded in FeeStructure and drives the overdue sweep.
// MaxAmount of 0 means uncapped.
type LateFeeConfig struct {
	Enabled         bool        `gorm:"not null;default:false" json:"enabled"`
	GracePeriodDays int         `gorm:"not null;default:0" json:"grace_period_days"`
	Mode            LateFeeMode `gorm:"type:text;not null;default:'daily'" json:"mode"`
	DailyRate       int64       `gorm:"not null;default:0" json:"daily_rate"`
	FixedAmount     int64       `gorm:"not null;default:0" json:"fixed_amount"`
	PercentRate     float64     `gorm:"not null;default:0" json:"percent_rate"`
	MaxAmount       int64       `gorm:"not null;default:0" json:"max_amount"`
}
