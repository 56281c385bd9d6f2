package events

// Billing event types published to the notification outbox.
const (
	EventInvoiceCreated  = "invoice.created"
	EventInvoicePaid     = "invoice.paid"
	EventLateFeeApplied  = "invoice.late_fee_applied"
	EventPaymentRecorded = "invoice.payment_recorded"
)

// InvoiceReminderPayload is the template payload for guardian-facing
// payment reminders.
type InvoiceReminderPayload struct {
	InvoiceID   string `json:"invoice_id"`
	StudentName string `json:"student_name"`
	MonthKey    string `json:"month_key"`
	TotalAmount int64  `json:"total_amount"`
	DueDate     string `json:"due_date"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p InvoiceReminderPayload) ToMap() map[string]any {
	return map[string]any{
		"invoice_id":   p.InvoiceID,
		"student_name": p.StudentName,
		"month_key":    p.MonthKey,
		"total_amount": p.TotalAmount,
		"due_date":     p.DueDate,
	}
}
