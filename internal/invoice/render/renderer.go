package render

import "time"

// RenderInput is the deterministic input used for fee receipt rendering.
type RenderInput struct {
	School   SchoolView
	Invoice  InvoiceView
	Student  StudentView
	Lines    []LineView
	Payments []PaymentView
}

type SchoolView struct {
	Name string
}

type InvoiceView struct {
	ID             string
	MonthKey       string
	Status         string
	DueDate        time.Time
	BaseAmount     int64
	CurrentCharges int64
	PreviousDue    int64
	LateFee        int64
	TotalAmount    int64
	PaidAmount     int64
	RemainingDue   int64
}

type StudentView struct {
	Name string
}

// LineView covers both fee lines and applied discounts; discounts render
// with a negative amount.
type LineView struct {
	Name     string
	Category string
	Amount   int64
}

type PaymentView struct {
	PaidAt time.Time
	Amount int64
	Method string
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}
