package domain

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	dueDate := time.Date(2026, time.November, 10, 0, 0, 0, 0, time.UTC)
	beforeDue := dueDate.AddDate(0, 0, -5)
	afterDue := dueDate.AddDate(0, 0, 5)

	cases := []struct {
		name   string
		paid   int64
		total  int64
		now    time.Time
		expect InvoiceStatus
	}{
		{"unpaid before due", 0, 1000, beforeDue, StatusPending},
		{"unpaid after due", 0, 1000, afterDue, StatusOverdue},
		{"partial before due", 400, 1000, beforeDue, StatusPartial},
		{"partial after due", 400, 1000, afterDue, StatusPartial},
		{"fully paid", 1000, 1000, beforeDue, StatusPaid},
		{"overpaid", 1200, 1000, afterDue, StatusPaid},
		{"zero total", 0, 0, beforeDue, StatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveStatus(tc.paid, tc.total, dueDate, tc.now)
			if got != tc.expect {
				t.Fatalf("expected %s, got %s", tc.expect, got)
			}
		})
	}
}
