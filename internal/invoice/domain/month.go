package domain

import (
	"fmt"
	"strings"
	"time"
)

var monthsByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// ParseMonthName resolves an English month name (case-insensitive, full or
// three-letter form) to its month number.
func ParseMonthName(name string) (time.Month, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if month, ok := monthsByName[normalized]; ok {
		return month, nil
	}
	if len(normalized) == 3 {
		for full, month := range monthsByName {
			if strings.HasPrefix(full, normalized) {
				return month, nil
			}
		}
	}
	return 0, ErrInvalidMonth
}

// MonthKey renders the canonical "YYYY-MM" invoice month key.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// PreviousMonthKey returns the key for the immediately preceding calendar
// month, used for carry-forward lookups.
func PreviousMonthKey(year int, month time.Month) string {
	if month == time.January {
		return MonthKey(year-1, time.December)
	}
	return MonthKey(year, month-1)
}

// DueDateFor fixes the invoice due date at the 10th of the target month.
func DueDateFor(year int, month time.Month) time.Time {
	return time.Date(year, month, 10, 0, 0, 0, 0, time.UTC)
}
