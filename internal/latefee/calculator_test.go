package latefee

import (
	"testing"
	"time"

	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
)

func TestDaysLate(t *testing.T) {
	dueDate := time.Date(2026, time.November, 10, 0, 0, 0, 0, time.UTC)

	if got := DaysLate(dueDate, dueDate); got != 0 {
		t.Fatalf("expected 0 on the due date, got %d", got)
	}
	if got := DaysLate(dueDate, dueDate.Add(23*time.Hour)); got != 0 {
		t.Fatalf("partial day should not count, got %d", got)
	}
	if got := DaysLate(dueDate, dueDate.AddDate(0, 0, 8)); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
}

func TestComputeDaily(t *testing.T) {
	cfg := feecatalogdomain.LateFeeConfig{
		Enabled:         true,
		GracePeriodDays: 5,
		Mode:            feecatalogdomain.LateFeeModeDaily,
		DailyRate:       10,
	}

	// 8 days overdue minus 5 grace days leaves 3 chargeable days.
	if got := Compute(cfg, 8, 500); got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
	if got := Compute(cfg, 5, 500); got != 0 {
		t.Fatalf("inside grace period: expected 0, got %d", got)
	}
}

func TestComputeFixed(t *testing.T) {
	cfg := feecatalogdomain.LateFeeConfig{
		Enabled:     true,
		Mode:        feecatalogdomain.LateFeeModeFixed,
		FixedAmount: 250,
	}
	if got := Compute(cfg, 1, 10000); got != 250 {
		t.Fatalf("expected 250, got %d", got)
	}
}

func TestComputePercentage(t *testing.T) {
	cfg := feecatalogdomain.LateFeeConfig{
		Enabled:     true,
		Mode:        feecatalogdomain.LateFeeModePercentage,
		PercentRate: 2.5,
	}
	if got := Compute(cfg, 3, 10000); got != 250 {
		t.Fatalf("expected 250, got %d", got)
	}
}

func TestComputeCap(t *testing.T) {
	cfg := feecatalogdomain.LateFeeConfig{
		Enabled:   true,
		Mode:      feecatalogdomain.LateFeeModeDaily,
		DailyRate: 100,
		MaxAmount: 150,
	}
	if got := Compute(cfg, 30, 500); got != 150 {
		t.Fatalf("expected cap at 150, got %d", got)
	}
}

func TestComputeDisabled(t *testing.T) {
	cfg := feecatalogdomain.LateFeeConfig{
		Mode:      feecatalogdomain.LateFeeModeDaily,
		DailyRate: 10,
	}
	if got := Compute(cfg, 30, 500); got != 0 {
		t.Fatalf("disabled config: expected 0, got %d", got)
	}
}
