package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/scholara/pkg/db/pagination"
)

// GenerateInvoicesRequest scopes one generation call. StudentID narrows the
// batch to a single student; PenaltyStudentIDs receive one fixed penalty
// line each. Tenant and academic year come from the request context.
type GenerateInvoicesRequest struct {
	ClassID           snowflake.ID
	Month             string
	StudentID         snowflake.ID
	IsExamMonth       bool
	PenaltyStudentIDs []snowflake.ID
}

// GenerationFailure reports one student whose invoice could not be created.
// A failure never aborts the rest of the batch.
type GenerationFailure struct {
	StudentID snowflake.ID `json:"student_id"`
	Reason    string       `json:"reason"`
}

type GenerateInvoicesResponse struct {
	Invoices []Invoice           `json:"invoices"`
	Skipped  int                 `json:"skipped"`
	Failures []GenerationFailure `json:"failures,omitempty"`
}

type ApplyPaymentRequest struct {
	InvoiceID     snowflake.ID
	Amount        int64
	Method        string
	TransactionID string
	ProcessedBy   string
}

type ListInvoicesRequest struct {
	pagination.Pagination
	StudentID snowflake.ID
	ClassID   snowflake.ID
	Status    InvoiceStatus
	MonthKey  string
}

type ListInvoicesResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// Service is the invoice ledger: generation, payment application, reads.
type Service interface {
	GenerateInvoices(ctx context.Context, req GenerateInvoicesRequest) (GenerateInvoicesResponse, error)
	ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (Invoice, error)
	GetInvoice(ctx context.Context, id snowflake.ID) (Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) (ListInvoicesResponse, error)
}
