package domain

import "errors"

var (
	ErrInvalidTenant       = errors.New("invalid_tenant")
	ErrInvalidAcademicYear = errors.New("invalid_academic_year")
	ErrInvalidClass        = errors.New("invalid_class")
	ErrInvalidMonth        = errors.New("invalid_month")
	ErrInvalidInvoiceID    = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound     = errors.New("invoice_not_found")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidMethod       = errors.New("invalid_payment_method")
	// ErrDuplicateInvoice marks the idempotent skip path: an invoice already
	// exists for the (student, month, academic year) scope. Callers treat it
	// as a no-op, never as a failure.
	ErrDuplicateInvoice = errors.New("duplicate_invoice")
	// ErrConcurrentUpdate signals an optimistic-concurrency conflict between
	// a payment write and the late-fee sweep.
	ErrConcurrentUpdate = errors.New("concurrent_invoice_update")
)
