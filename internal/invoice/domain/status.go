package domain

import "time"

// DeriveStatus computes the invoice status purely from the monetary fields
// and the current time:
//
//	remaining <= 0            -> paid
//	0 < paid < total          -> partial
//	paid == 0, past due date  -> overdue
//	otherwise                 -> pending
//
// Callers must never set Status outside this derivation; the late-fee sweep
// is the single exception, and only in the same write that applies the fee.
func DeriveStatus(paidAmount, totalAmount int64, dueDate, now time.Time) InvoiceStatus {
	remaining := totalAmount - paidAmount
	switch {
	case remaining <= 0:
		return StatusPaid
	case paidAmount > 0:
		return StatusPartial
	case now.After(dueDate):
		return StatusOverdue
	default:
		return StatusPending
	}
}
