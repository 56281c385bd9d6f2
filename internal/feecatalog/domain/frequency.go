package domain

import "time"

// ChargeableIn reports whether the entry bills in the given calendar month.
// Quarterly and yearly frequencies are anchored on the academic year's
// starting month: a year beginning in April charges quarterly fees in
// April, July, October and January, and yearly fees in April only.
func (e FeeCatalogEntry) ChargeableIn(month time.Month, yearStartMonth time.Month) bool {
	switch e.Frequency {
	case FrequencyMonthly:
		return true
	case FrequencyQuarterly:
		offset := (int(month) - int(yearStartMonth) + 12) % 12
		return offset%3 == 0
	case FrequencyYearly:
		return month == yearStartMonth
	case FrequencySpecificMonths:
		for _, m := range e.SpecificMonths {
			if m == int(month) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Validate enforces the structural invariants of a catalog entry.
func (e FeeCatalogEntry) Validate() error {
	if e.Frequency == FrequencySpecificMonths && len(e.SpecificMonths) == 0 {
		return ErrEmptySpecificMonths
	}
	if e.Amount < 0 {
		return ErrInvalidEntryAmount
	}
	return nil
}
