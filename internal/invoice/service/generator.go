package service

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
	studentdomain "github.com/smallbiznis/scholara/internal/student/domain"
)

const penaltyLineName = "Penalty"

// chargeLine is one evaluated fee line before persistence.
type chargeLine struct {
	Name     string
	Category feecatalogdomain.FeeCategory
	Amount   int64
}

type appliedDiscount struct {
	Name   string
	Kind   feecatalogdomain.DiscountKind
	Amount int64
}

// evaluateCharges walks the catalog and produces the fee lines chargeable for
// this student and month. Base lines accumulate into baseAmount, everything
// else into currentCharges. A transport fee whose per-route table cannot
// resolve the student's route fails only this student, not the batch.
func evaluateCharges(
	structure *feecatalogdomain.FeeStructure,
	student studentdomain.Student,
	month time.Month,
	yearStartMonth time.Month,
	isExamMonth bool,
	penalized bool,
	penaltyAmount int64,
) (lines []chargeLine, baseAmount, currentCharges int64, err error) {
	for _, entry := range structure.Entries {
		if !entry.ChargeableIn(month, yearStartMonth) {
			continue
		}

		amount := entry.Amount
		switch entry.Category {
		case feecatalogdomain.FeeCategoryBase:
			lines = append(lines, chargeLine{Name: entry.Name, Category: entry.Category, Amount: amount})
			baseAmount += amount
			continue
		case feecatalogdomain.FeeCategoryOptionalTransport:
			if !student.UsesTransport {
				continue
			}
			if len(entry.RouteAmounts) > 0 {
				if student.RouteID == nil {
					return nil, 0, 0, fmt.Errorf("fee %q requires a route assignment", entry.Name)
				}
				raw, ok := entry.RouteAmounts[student.RouteID.String()]
				if !ok {
					return nil, 0, 0, fmt.Errorf("fee %q has no amount for route %s", entry.Name, student.RouteID.String())
				}
				amount, ok = numericAmount(raw)
				if !ok {
					return nil, 0, 0, fmt.Errorf("fee %q has a non-numeric amount for route %s", entry.Name, student.RouteID.String())
				}
			}
		case feecatalogdomain.FeeCategoryOptionalHostel:
			if !student.UsesHostel {
				continue
			}
		case feecatalogdomain.FeeCategoryOptionalOther:
			if !student.HasPreference(entry.PreferenceKey) {
				continue
			}
		case feecatalogdomain.FeeCategoryExam:
			if !isExamMonth {
				continue
			}
		default:
			continue
		}

		lines = append(lines, chargeLine{Name: entry.Name, Category: entry.Category, Amount: amount})
		currentCharges += amount
	}

	if penalized && penaltyAmount > 0 {
		lines = append(lines, chargeLine{Name: penaltyLineName, Category: feecatalogdomain.FeeCategoryPenalty, Amount: penaltyAmount})
		currentCharges += penaltyAmount
	}
	return lines, baseAmount, currentCharges, nil
}

// applyDiscounts evaluates each rule against the running current charges.
// Every value is capped at what remains, so the accumulated discount never
// exceeds the pre-discount current charges.
func applyDiscounts(rules []feecatalogdomain.DiscountRule, currentCharges int64) ([]appliedDiscount, int64) {
	remaining := currentCharges
	var applied []appliedDiscount
	var total int64
	for _, rule := range rules {
		if remaining <= 0 {
			break
		}

		var value int64
		switch rule.Kind {
		case feecatalogdomain.DiscountKindPercentage:
			value = decimal.NewFromInt(remaining).
				Mul(decimal.NewFromFloat(rule.Percent)).
				Div(decimal.NewFromInt(100)).
				Round(0).
				IntPart()
		case feecatalogdomain.DiscountKindFixed:
			value = rule.Amount
		default:
			continue
		}
		if value <= 0 {
			continue
		}
		if value > remaining {
			value = remaining
		}

		applied = append(applied, appliedDiscount{Name: rule.Name, Kind: rule.Kind, Amount: value})
		remaining -= value
		total += value
	}
	return applied, total
}

func numericAmount(raw any) (int64, bool) {
	switch v := raw.(type) {
	case float64:
		// JSONB decodes numbers as float64; a fractional amount is malformed,
		// not something to silently truncate.
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
