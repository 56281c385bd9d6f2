package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
)

// InvoiceStatus is derived from the monetary fields and the clock, never set
// independently. See DeriveStatus.
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPartial InvoiceStatus = "partial"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
)

// Invoice is the central mutable billing record. At most one exists per
// (tenant, student, month key, academic year); the storage layer enforces
// this with ux_invoices_student_month.
//
// Invariants: TotalAmount = BaseAmount + CurrentCharges + PreviousDue +
// LateFee, and RemainingDue = TotalAmount - PaidAmount (never written
// negative). All amounts are minor units.
type Invoice struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID       snowflake.ID  `gorm:"not null;uniqueIndex:ux_invoices_student_month,priority:1" json:"tenant_id"`
	StudentID      snowflake.ID  `gorm:"not null;uniqueIndex:ux_invoices_student_month,priority:2" json:"student_id"`
	MonthKey       string        `gorm:"type:text;not null;uniqueIndex:ux_invoices_student_month,priority:3" json:"month_key"`
	AcademicYearID snowflake.ID  `gorm:"not null;uniqueIndex:ux_invoices_student_month,priority:4" json:"academic_year_id"`
	ClassID        snowflake.ID  `gorm:"not null;index" json:"class_id"`
	BaseAmount     int64         `gorm:"not null;default:0" json:"base_amount"`
	CurrentCharges int64         `gorm:"not null;default:0" json:"current_charges"`
	PreviousDue    int64         `gorm:"not null;default:0" json:"previous_due"`
	LateFee        int64         `gorm:"not null;default:0" json:"late_fee"`
	TotalAmount    int64         `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount     int64         `gorm:"not null;default:0" json:"paid_amount"`
	RemainingDue   int64         `gorm:"not null;default:0" json:"remaining_due"`
	Status         InvoiceStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	DueDate        time.Time     `gorm:"not null" json:"due_date"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lines     []InvoiceLine     `gorm:"foreignKey:InvoiceID" json:"invoice_details"`
	Discounts []InvoiceDiscount `gorm:"foreignKey:InvoiceID" json:"discounts_applied"`
	Payments  []InvoicePayment  `gorm:"foreignKey:InvoiceID" json:"payment_history"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLine is one applied fee line. Append-only; the sweep adds a
// synthetic "Late Fee" line when it applies a penalty.
type InvoiceLine struct {
	ID        snowflake.ID               `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID               `gorm:"not null;index" json:"invoice_id"`
	Name      string                     `gorm:"type:text;not null" json:"name"`
	Category  feecatalogdomain.FeeCategory `gorm:"type:text;not null" json:"category"`
	Amount    int64                      `gorm:"not null" json:"amount"`
	Position  int                        `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }

// InvoiceDiscount records one applied discount for transparency.
type InvoiceDiscount struct {
	ID        snowflake.ID               `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID               `gorm:"not null;index" json:"invoice_id"`
	Name      string                     `gorm:"type:text;not null" json:"name"`
	Kind      feecatalogdomain.DiscountKind `gorm:"type:text;not null" json:"kind"`
	Amount    int64                      `gorm:"not null" json:"amount"`
	Position  int                        `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceDiscount) TableName() string { return "invoice_discounts" }

// InvoicePayment is one append-only payment history entry.
type InvoicePayment struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	Amount        int64        `gorm:"not null" json:"amount"`
	Method        string       `gorm:"type:text;not null" json:"method"`
	TransactionID *string      `gorm:"type:text" json:"transaction_id,omitempty"`
	ProcessedBy   string       `gorm:"type:text;not null;default:''" json:"processed_by"`
	PaidAt        time.Time    `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoicePayment) TableName() string { return "invoice_payments" }

// LateFeeLineName is the synthetic line appended by the overdue sweep.
const LateFeeLineName = "Late Fee"
