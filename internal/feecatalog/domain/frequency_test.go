package domain

import (
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestChargeableInMonthly(t *testing.T) {
	entry := FeeCatalogEntry{Frequency: FrequencyMonthly}
	for month := time.January; month <= time.December; month++ {
		if !entry.ChargeableIn(month, time.April) {
			t.Fatalf("monthly entry not chargeable in %v", month)
		}
	}
}

func TestChargeableInQuarterlyAnchoredOnYearStart(t *testing.T) {
	entry := FeeCatalogEntry{Frequency: FrequencyQuarterly}

	// April start charges in April, July, October and January.
	chargeable := map[time.Month]bool{
		time.April:   true,
		time.July:    true,
		time.October: true,
		time.January: true,
	}
	for month := time.January; month <= time.December; month++ {
		if got := entry.ChargeableIn(month, time.April); got != chargeable[month] {
			t.Fatalf("quarterly in %v: expected %v, got %v", month, chargeable[month], got)
		}
	}
}

func TestChargeableInYearly(t *testing.T) {
	entry := FeeCatalogEntry{Frequency: FrequencyYearly}
	for month := time.January; month <= time.December; month++ {
		expect := month == time.April
		if got := entry.ChargeableIn(month, time.April); got != expect {
			t.Fatalf("yearly in %v: expected %v, got %v", month, expect, got)
		}
	}
}

func TestChargeableInSpecificMonths(t *testing.T) {
	entry := FeeCatalogEntry{
		Frequency:      FrequencySpecificMonths,
		SpecificMonths: datatypes.JSONSlice[int]{1, 4, 7, 10},
	}

	var hits []time.Month
	for month := time.January; month <= time.December; month++ {
		if entry.ChargeableIn(month, time.April) {
			hits = append(hits, month)
		}
	}
	expect := []time.Month{time.January, time.April, time.July, time.October}
	if len(hits) != len(expect) {
		t.Fatalf("expected %v, got %v", expect, hits)
	}
	for i := range expect {
		if hits[i] != expect[i] {
			t.Fatalf("expected %v, got %v", expect, hits)
		}
	}
}

func TestValidateRejectsEmptySpecificMonths(t *testing.T) {
	entry := FeeCatalogEntry{Frequency: FrequencySpecificMonths}
	if err := entry.Validate(); !errors.Is(err, ErrEmptySpecificMonths) {
		t.Fatalf("expected ErrEmptySpecificMonths, got %v", err)
	}
}

func TestValidateRejectsNegativeAmount(t *testing.T) {
	entry := FeeCatalogEntry{Frequency: FrequencyMonthly, Amount: -1}
	if err := entry.Validate(); !errors.Is(err, ErrInvalidEntryAmount) {
		t.Fatalf("expected ErrInvalidEntryAmount, got %v", err)
	}
}
