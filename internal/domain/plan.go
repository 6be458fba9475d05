package domain

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how the retirement horizon is described.
type Mode string

const (
	// ModeBasic is a flat annual expense over a fixed retirement period.
	ModeBasic Mode = "basic"
	// ModeAdvanced is age based with an accumulation phase, contributions and
	// an income offset in retirement.
	ModeAdvanced Mode = "advanced"
)

// DefaultTargetSuccessRate is used when a plan does not set a target (percent).
const DefaultTargetSuccessRate = 85.0

// ParseMode converts a user supplied mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBasic:
		return ModeBasic, nil
	case ModeAdvanced, "":
		return ModeAdvanced, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidPlan, s)
	}
}

// Assumptions holds the market and inflation assumptions as annual fractions.
type Assumptions struct {
	ExpectedReturn     float64 `json:"expectedReturn" yaml:"expected_return"`
	StandardDeviation  float64 `json:"standardDeviation" yaml:"standard_deviation"`
	InflationRate      float64 `json:"inflationRate" yaml:"inflation_rate"`
	AdjustForInflation bool    `json:"adjustForInflation" yaml:"adjust_for_inflation"`
}

// PlanParameters is the full input of one calculation. It is a value type:
// the With* methods return modified copies and never touch the receiver.
type PlanParameters struct {
	Mode        Mode        `json:"mode"`
	Assumptions Assumptions `json:"assumptions"`

	AnnualExpense    float64 `json:"annualExpense"`
	RetirementPeriod int     `json:"retirementPeriod,omitempty"`

	CurrentAge                 int     `json:"currentAge,omitempty"`
	RetirementAge              int     `json:"retirementAge,omitempty"`
	LifeExpectancy             int     `json:"lifeExpectancy,omitempty"`
	CurrentCorpus              float64 `json:"currentCorpus,omitempty"`
	AnnualContribution         float64 `json:"annualContribution,omitempty"`
	AdditionalRetirementIncome float64 `json:"additionalRetirementIncome,omitempty"`

	// TargetSuccessRate is a percentage in [0,100]; zero means "use the default".
	TargetSuccessRate float64 `json:"targetSuccessRate"`
	Trials            int     `json:"trials"`
}

// Validate checks the structural invariants every calculation relies on.
// Range checks on user input live in the config package.
func (p PlanParameters) Validate() error {
	var problems []string
	if p.Mode != ModeBasic && p.Mode != ModeAdvanced {
		problems = append(problems, fmt.Sprintf("unknown mode %q", p.Mode))
	}
	if p.Trials <= 0 {
		problems = append(problems, "trials must be positive")
	}
	if p.Assumptions.StandardDeviation < 0 {
		problems = append(problems, "standard deviation cannot be negative")
	}
	if p.Assumptions.ExpectedReturn <= -1 {
		problems = append(problems, "expected return must be greater than -100%")
	}
	if p.AnnualExpense < 0 {
		problems = append(problems, "annual expense cannot be negative")
	}
	if p.TargetSuccessRate < 0 || p.TargetSuccessRate > 100 {
		problems = append(problems, "target success rate must be between 0 and 100")
	}
	switch p.Mode {
	case ModeBasic:
		if p.RetirementPeriod <= 0 {
			problems = append(problems, "retirement period must be positive")
		}
	case ModeAdvanced:
		if p.RetirementAge <= p.CurrentAge {
			problems = append(problems, "retirement age must be greater than current age")
		}
		if p.LifeExpectancy <= p.RetirementAge {
			problems = append(problems, "life expectancy must be greater than retirement age")
		}
		if p.CurrentCorpus < 0 || p.AnnualContribution < 0 || p.AdditionalRetirementIncome < 0 {
			problems = append(problems, "corpus, contribution and income cannot be negative")
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPlan, strings.Join(problems, "; "))
	}
	return nil
}

// YearsToRetirement is zero in basic mode.
func (p PlanParameters) YearsToRetirement() int {
	if p.Mode == ModeBasic {
		return 0
	}
	return p.RetirementAge - p.CurrentAge
}

// RetirementYears is the length of the withdrawal horizon.
func (p PlanParameters) RetirementYears() int {
	if p.Mode == ModeBasic {
		return p.RetirementPeriod
	}
	return p.LifeExpectancy - p.RetirementAge
}

// HorizonYears counts the tracked ages from current age to life expectancy inclusive.
func (p PlanParameters) HorizonYears() int {
	if p.Mode == ModeBasic {
		return p.RetirementPeriod
	}
	return p.LifeExpectancy - p.CurrentAge + 1
}

// TargetOrDefault returns the target success rate as a percentage.
func (p PlanParameters) TargetOrDefault() float64 {
	if p.TargetSuccessRate > 0 {
		return p.TargetSuccessRate
	}
	return DefaultTargetSuccessRate
}

// InflationFactor returns the multiplier applied to expenses yearIndex years out.
func (p PlanParameters) InflationFactor(yearIndex int) float64 {
	if !p.Assumptions.AdjustForInflation || yearIndex <= 0 {
		return 1
	}
	return math.Pow(1+p.Assumptions.InflationRate, float64(yearIndex))
}

// NetMonthlyExpense is the monthly withdrawal in a given retirement year after
// the additional income offset. It is never negative.
func (p PlanParameters) NetMonthlyExpense(yearIndex int) float64 {
	return p.NetAnnualExpense(yearIndex) / 12
}

// NetAnnualExpense is the yearly withdrawal after the additional income offset.
func (p PlanParameters) NetAnnualExpense(yearIndex int) float64 {
	return math.Max(0, p.AnnualExpense*p.InflationFactor(yearIndex)-p.AdditionalRetirementIncome)
}

func (p PlanParameters) WithAnnualExpense(v float64) PlanParameters {
	p.AnnualExpense = v
	return p
}

func (p PlanParameters) WithAnnualContribution(v float64) PlanParameters {
	p.AnnualContribution = v
	return p
}

func (p PlanParameters) WithRetirementAge(age int) PlanParameters {
	p.RetirementAge = age
	return p
}

func (p PlanParameters) WithCurrentCorpus(v float64) PlanParameters {
	p.CurrentCorpus = v
	return p
}

func (p PlanParameters) WithAdditionalIncome(v float64) PlanParameters {
	p.AdditionalRetirementIncome = v
	return p
}

func (p PlanParameters) WithTargetSuccessRate(rate float64) PlanParameters {
	p.TargetSuccessRate = rate
	return p
}

func (p PlanParameters) WithTrials(n int) PlanParameters {
	p.Trials = n
	return p
}

func (p PlanParameters) WithAssumptions(a Assumptions) PlanParameters {
	p.Assumptions = a
	return p
}

// WithAdjustments applies the three scenario levers at once.
func (p PlanParameters) WithAdjustments(delayYears int, extraContribution, expenseReduction float64) PlanParameters {
	p.RetirementAge += delayYears
	p.AnnualContribution += extraContribution
	p.AnnualExpense = math.Max(0, p.AnnualExpense-expenseReduction)
	return p
}

// ToFraction converts a 0-100 percentage to a 0-1 fraction.
func ToFraction(percent float64) float64 { return percent / 100 }

// ToPercent converts a 0-1 fraction to a 0-100 percentage.
func ToPercent(fraction float64) float64 { return fraction * 100 }
