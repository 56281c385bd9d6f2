package latefee

import (
	"time"

	"github.com/shopspring/decimal"
	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
)

// DaysLate counts whole days elapsed past the due date. Partial days do not
// count, and the grace period is applied by Compute, not here.
func DaysLate(dueDate, now time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	return int(now.Sub(dueDate) / (24 * time.Hour))
}

// Compute returns the late fee in minor units for an invoice overdue by
// daysLate days with remainingDue outstanding. Returns 0 when the config is
// disabled or the grace period still covers the delay. MaxAmount of 0 means
// uncapped.
func Compute(cfg feecatalogdomain.LateFeeConfig, daysLate int, remainingDue int64) int64 {
	if !cfg.Enabled {
		return 0
	}
	chargeable := daysLate - cfg.GracePeriodDays
	if chargeable <= 0 {
		return 0
	}

	var fee int64
	switch cfg.Mode {
	case feecatalogdomain.LateFeeModeDaily:
		fee = cfg.DailyRate * int64(chargeable)
	case feecatalogdomain.LateFeeModeFixed:
		fee = cfg.FixedAmount
	case feecatalogdomain.LateFeeModePercentage:
		fee = decimal.NewFromInt(remainingDue).
			Mul(decimal.NewFromFloat(cfg.PercentRate)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	default:
		return 0
	}
	if fee <= 0 {
		return 0
	}
	if cfg.MaxAmount > 0 && fee > cfg.MaxAmount {
		fee = cfg.MaxAmount
	}
	return fee
}
