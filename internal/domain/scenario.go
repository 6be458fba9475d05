package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Lever names an adjustable plan input used in scenario search.
type Lever string

const (
	LeverContribution Lever = "contribution"
	LeverDelay        Lever = "delay"
	LeverExpense      Lever = "expense"
)

// ScenarioAdjustment is the result of a single-lever search.
type ScenarioAdjustment struct {
	Lever Lever `json:"lever"`
	// Amount is the extra annual contribution or the annual expense reduction.
	Amount float64 `json:"amount,omitempty"`
	// DelayYears is set for the delay lever.
	DelayYears  int     `json:"delayYears,omitempty"`
	SuccessRate float64 `json:"successRate"`
}

// BalancedAdjustment combines all three levers.
type BalancedAdjustment struct {
	AdditionalContribution float64 `json:"additionalContribution"`
	DelayYears             int     `json:"delayYears"`
	ExpenseReduction       float64 `json:"expenseReduction"`
	SuccessRate            float64 `json:"successRate"`
	Description            string  `json:"description"`
}

// Describe renders the recommendation, listing only non-zero levers.
// money formats amounts; nil falls back to a grouped whole number.
func (b BalancedAdjustment) Describe(money func(float64) string) string {
	if money == nil {
		money = groupedAmount
	}
	var parts []string
	if b.AdditionalContribution > 0 {
		parts = append(parts, fmt.Sprintf("increase contributions by %s/year", money(b.AdditionalContribution)))
	}
	if b.DelayYears > 0 {
		unit := "years"
		if b.DelayYears == 1 {
			unit = "year"
		}
		parts = append(parts, fmt.Sprintf("delay retirement by %d %s", b.DelayYears, unit))
	}
	if b.ExpenseReduction > 0 {
		parts = append(parts, fmt.Sprintf("reduce expenses by %s/year", money(b.ExpenseReduction)))
	}
	if len(parts) == 0 {
		return "No changes required"
	}
	s := strings.Join(parts, " and ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// ScenarioSet is everything the scenario calibrator produces for one plan.
type ScenarioSet struct {
	Target             float64 `json:"target"`
	CurrentSuccessRate float64 `json:"currentSuccessRate"`
	// MeetsTarget is true when the unchanged plan already reaches the target;
	// the levers are then left empty.
	MeetsTarget  bool                `json:"meetsTarget"`
	Contribution *ScenarioAdjustment `json:"contribution,omitempty"`
	Delay        *ScenarioAdjustment `json:"delay,omitempty"`
	Expense      *ScenarioAdjustment `json:"expense,omitempty"`
	Balanced     *BalancedAdjustment `json:"balanced,omitempty"`
}

func groupedAmount(v float64) string {
	s := strconv.FormatInt(int64(math.Round(v)), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
