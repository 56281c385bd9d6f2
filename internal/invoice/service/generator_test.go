package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
	studentdomain "github.com/smallbiznis/scholara/internal/student/domain"
	"gorm.io/datatypes"
)

func TestEvaluateChargesBaseAndOptionalGating(t *testing.T) {
	structure := &feecatalogdomain.FeeStructure{
		Entries: []feecatalogdomain.FeeCatalogEntry{
			{Name: "Tuition", Category: feecatalogdomain.FeeCategoryBase, Frequency: feecatalogdomain.FrequencyMonthly, Amount: 100000},
			{Name: "Transport", Category: feecatalogdomain.FeeCategoryOptionalTransport, Frequency: feecatalogdomain.FrequencyMonthly, Amount: 20000},
			{Name: "Hostel", Category: feecatalogdomain.FeeCategoryOptionalHostel, Frequency: feecatalogdomain.FrequencyMonthly, Amount: 50000},
			{Name: "Music Club", Category: feecatalogdomain.FeeCategoryOptionalOther, Frequency: feecatalogdomain.FrequencyMonthly, Amount: 10000, PreferenceKey: "music_club"},
		},
	}
	student := studentdomain.Student{
		UsesTransport: true,
		UsesHostel:    false,
		Preferences:   datatypes.JSONMap{"music_club": true},
	}

	lines, baseAmount, currentCharges, err := evaluateCharges(structure, student, time.November, time.April, false, false, 0)
	if err != nil {
		t.Fatalf("evaluate charges: %v", err)
	}
	if baseAmount != 100000 {
		t.Fatalf("expected base 100000, got %d", baseAmount)
	}
	if currentCharges != 30000 {
		t.Fatalf("expected current 30000, got %d", currentCharges)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line.Name == "Hostel" {
			t.Fatal("hostel fee charged to a non-hostel student")
		}
	}
}

func TestEvaluateChargesExamSuppression(t *testing.T) {
	structure := &feecatalogdomain.FeeStructure{
		Entries: []feecatalogdomain.FeeCatalogEntry{
			{Name: "Exam Fee", Category: feecatalogdomain.FeeCategoryExam, Frequency: feecatalogdomain.FrequencyMonthly, Amount: 15000},
		},
	}

	lines, _, current, err := evaluateCharges(structure, studentdomain.Student{}, time.March, time.April, false, false, 0)
	if err != nil {
		t.Fatalf("evaluate charges: %v", err)
	}
	if len(lines) != 0 || current != 0 {
		t.Fatalf("exam fee charged outside exam month: %v", lines)
	}

	lines, _, current, err = evaluateCharges(structure, studentdomain.Student{}, time.March, time.April, true, false, 0)
	if err != nil {
		t.Fatalf("evaluate charges: %v", err)
	}
	if len(lines) != 1 || current != 15000 {
		t.Fatalf("expected one exam line of 15000, got %v (current %d)", lines, current)
	}
}

func TestEvaluateChargesRouteOverride(t *testing.T) {
	routeID := snowflake.ID(42)
	structure := &feecatalogdomain.FeeStructure{
		Entries: []feecatalogdomain.FeeCatalogEntry{
			{
				Name:      "Transport",
				Category:  feecatalogdomain.FeeCategoryOptionalTransport,
				Frequency: feecatalogdomain.FrequencyMonthly,
				Amount:    20000,
				RouteAmounts: datatypes.JSONMap{
					routeID.String(): float64(35000),
				},
			},
		},
	}
	student := studentdomain.Student{UsesTransport: true, RouteID: &routeID}

	lines, _, current, err := evaluateCharges(structure, student, time.June, time.April, false, false, 0)
	if err != nil {
		t.Fatalf("evaluate charges: %v", err)
	}
	if len(lines) != 1 || current != 35000 {
		t.Fatalf("expected route override 35000, got %v (current %d)", lines, current)
	}
}

func TestEvaluateChargesMissingRouteFails(t *testing.T) {
	otherRoute := snowflake.ID(7)
	structure := &feecatalogdomain.FeeStructure{
		Entries: []feecatalogdomain.FeeCatalogEntry{
			{
				Name:      "Transport",
				Category:  feecatalogdomain.FeeCategoryOptionalTransport,
				Frequency: feecatalogdomain.FrequencyMonthly,
				Amount:    20000,
				RouteAmounts: datatypes.JSONMap{
					"99": float64(30000),
				},
			},
		},
	}

	student := studentdomain.Student{UsesTransport: true, RouteID: &otherRoute}
	if _, _, _, err := evaluateCharges(structure, student, time.June, time.April, false, false, 0); err == nil {
		t.Fatal("expected an error for a route without a configured amount")
	}

	unassigned := studentdomain.Student{UsesTransport: true}
	if _, _, _, err := evaluateCharges(structure, unassigned, time.June, time.April, false, false, 0); err == nil {
		t.Fatal("expected an error for a student without a route assignment")
	}
}

func TestEvaluateChargesFractionalRouteAmountFails(t *testing.T) {
	routeID := snowflake.ID(42)
	structure := &feecatalogdomain.FeeStructure{
		Entries: []feecatalogdomain.FeeCatalogEntry{
			{
				Name:      "Transport",
				Category:  feecatalogdomain.FeeCategoryOptionalTransport,
				Frequency: feecatalogdomain.FrequencyMonthly,
				Amount:    20000,
				RouteAmounts: datatypes.JSONMap{
					routeID.String(): float64(250.9),
				},
			},
		},
	}

	student := studentdomain.Student{UsesTransport: true, RouteID: &routeID}
	if _, _, _, err := evaluateCharges(structure, student, time.June, time.April, false, false, 0); err == nil {
		t.Fatal("expected an error for a fractional route amount")
	}
}

func TestEvaluateChargesPenaltyLine(t *testing.T) {
	structure := &feecatalogdomain.FeeStructure{}
	lines, base, current, err := evaluateCharges(structure, studentdomain.Student{}, time.June, time.April, false, true, 5000)
	if err != nil {
		t.Fatalf("evaluate charges: %v", err)
	}
	if base != 0 || current != 5000 {
		t.Fatalf("expected penalty of 5000 in current charges, got base %d current %d", base, current)
	}
	if len(lines) != 1 || lines[0].Name != penaltyLineName {
		t.Fatalf("expected a single penalty line, got %v", lines)
	}
}

func TestApplyDiscountsPercentageAndCap(t *testing.T) {
	rules := []feecatalogdomain.DiscountRule{
		{Name: "Sibling", Kind: feecatalogdomain.DiscountKindPercentage, Percent: 10},
		{Name: "Scholarship", Kind: feecatalogdomain.DiscountKindFixed, Amount: 100000},
	}

	applied, total := applyDiscounts(rules, 50000)
	if len(applied) != 2 {
		t.Fatalf("expected 2 applied discounts, got %d", len(applied))
	}
	if applied[0].Amount != 5000 {
		t.Fatalf("expected 10%% of 50000 = 5000, got %d", applied[0].Amount)
	}
	// The fixed rule is larger than what remains and must be capped.
	if applied[1].Amount != 45000 {
		t.Fatalf("expected capped 45000, got %d", applied[1].Amount)
	}
	if total != 50000 {
		t.Fatalf("expected total 50000, got %d", total)
	}
}

func TestApplyDiscountsNeverNegative(t *testing.T) {
	rules := []feecatalogdomain.DiscountRule{
		{Name: "Full Waiver", Kind: feecatalogdomain.DiscountKindFixed, Amount: 999999},
		{Name: "Extra", Kind: feecatalogdomain.DiscountKindFixed, Amount: 100},
	}

	applied, total := applyDiscounts(rules, 30000)
	if total != 30000 {
		t.Fatalf("expected total capped at 30000, got %d", total)
	}
	if len(applied) != 1 {
		t.Fatalf("expected the second rule to be skipped, got %v", applied)
	}
}

func TestApplyDiscountsZeroBase(t *testing.T) {
	rules := []feecatalogdomain.DiscountRule{
		{Name: "Sibling", Kind: feecatalogdomain.DiscountKindPercentage, Percent: 10},
	}
	applied, total := applyDiscounts(rules, 0)
	if len(applied) != 0 || total != 0 {
		t.Fatalf("expected no discounts on a zero base, got %v (total %d)", applied, total)
	}
}
