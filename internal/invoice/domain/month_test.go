package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonthName(t *testing.T) {
	cases := map[string]time.Month{
		"November":  time.November,
		"november":  time.November,
		" April ":   time.April,
		"jan":       time.January,
		"SEP":       time.September,
		"December ": time.December,
	}
	for input, expect := range cases {
		month, err := ParseMonthName(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if month != expect {
			t.Fatalf("parse %q: expected %v, got %v", input, expect, month)
		}
	}

	if _, err := ParseMonthName("Smarch"); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if _, err := ParseMonthName(""); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(2026, time.November); got != "2026-11" {
		t.Fatalf("expected 2026-11, got %s", got)
	}
	if got := MonthKey(2027, time.March); got != "2027-03" {
		t.Fatalf("expected 2027-03, got %s", got)
	}
}

func TestPreviousMonthKey(t *testing.T) {
	if got := PreviousMonthKey(2026, time.November); got != "2026-10" {
		t.Fatalf("expected 2026-10, got %s", got)
	}
	if got := PreviousMonthKey(2027, time.January); got != "2026-12" {
		t.Fatalf("expected 2026-12, got %s", got)
	}
}

func TestDueDateFor(t *testing.T) {
	got := DueDateFor(2026, time.November)
	expect := time.Date(2026, time.November, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(expect) {
		t.Fatalf("expected %v, got %v", expect, got)
	}
}
