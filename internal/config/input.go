package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// Defaults applied to fields a plan file leaves out.
const (
	DefaultTrials           = 5000
	DefaultRetirementPeriod = 30
)

var (
	DefaultExpectedReturn    = decimal.NewFromFloat(0.07)
	DefaultStandardDeviation = decimal.NewFromFloat(0.10)
	DefaultInflationRate     = decimal.NewFromFloat(0.03)
)

// Accepted input ranges.
const (
	MinTrials           = 1000
	MaxTrials           = 10000
	MinAge              = 18
	MaxAge              = 100
	MinRetirementPeriod = 5
	MaxRetirementPeriod = 50
)

var (
	minExpectedReturn    = decimal.NewFromFloat(-0.02)
	maxExpectedReturn    = decimal.NewFromFloat(0.15)
	minStandardDeviation = decimal.NewFromFloat(0.01)
	maxStandardDeviation = decimal.NewFromFloat(0.30)
	minInflation         = decimal.Zero
	maxInflation         = decimal.NewFromFloat(0.10)
	hundred              = decimal.NewFromInt(100)
)

// PlanFile is the on-disk form of a plan. Rates are annual fractions
// (0.07 = 7%); the target success rate is a percentage.
type PlanFile struct {
	Mode              string           `yaml:"mode" json:"mode"`
	Trials            int              `yaml:"trials,omitempty" json:"trials,omitempty"`
	TargetSuccessRate *decimal.Decimal `yaml:"target_success_rate,omitempty" json:"targetSuccessRate,omitempty"`
	Assumptions       AssumptionsFile  `yaml:"assumptions" json:"assumptions"`

	AnnualExpense    decimal.Decimal `yaml:"annual_expense" json:"annualExpense"`
	RetirementPeriod int             `yaml:"retirement_period,omitempty" json:"retirementPeriod,omitempty"`

	CurrentAge                 int             `yaml:"current_age,omitempty" json:"currentAge,omitempty"`
	RetirementAge              int             `yaml:"retirement_age,omitempty" json:"retirementAge,omitempty"`
	LifeExpectancy             int             `yaml:"life_expectancy,omitempty" json:"lifeExpectancy,omitempty"`
	CurrentCorpus              decimal.Decimal `yaml:"current_corpus,omitempty" json:"currentCorpus,omitempty"`
	AnnualContribution         decimal.Decimal `yaml:"annual_contribution,omitempty" json:"annualContribution,omitempty"`
	AdditionalRetirementIncome decimal.Decimal `yaml:"additional_retirement_income,omitempty" json:"additionalRetirementIncome,omitempty"`
}

// AssumptionsFile holds the market assumptions of a plan file. Missing
// values fall back to the defaults above.
type AssumptionsFile struct {
	ExpectedReturn     *decimal.Decimal `yaml:"expected_return,omitempty" json:"expectedReturn,omitempty"`
	StandardDeviation  *decimal.Decimal `yaml:"standard_deviation,omitempty" json:"standardDeviation,omitempty"`
	InflationRate      *decimal.Decimal `yaml:"inflation_rate,omitempty" json:"inflationRate,omitempty"`
	AdjustForInflation *bool            `yaml:"adjust_for_inflation,omitempty" json:"adjustForInflation,omitempty"`
}

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file and converts it to parameters
func (ip *InputParser) LoadFromFile(filename string) (domain.PlanParameters, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.PlanParameters{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML plan data
func (ip *InputParser) Parse(data []byte) (domain.PlanParameters, error) {
	var plan PlanFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return domain.PlanParameters{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ip.ToParameters(plan)
}

// ToParameters applies defaults, validates the plan and converts money and
// rates to float64 for the simulation core.
func (ip *InputParser) ToParameters(plan PlanFile) (domain.PlanParameters, error) {
	ip.ApplyDefaults(&plan)

	if err := ip.ValidatePlan(&plan); err != nil {
		return domain.PlanParameters{}, fmt.Errorf("plan validation failed: %w", err)
	}

	mode, _ := domain.ParseMode(plan.Mode)
	params := domain.PlanParameters{
		Mode: mode,
		Assumptions: domain.Assumptions{
			ExpectedReturn:     plan.Assumptions.ExpectedReturn.InexactFloat64(),
			StandardDeviation:  plan.Assumptions.StandardDeviation.InexactFloat64(),
			InflationRate:      plan.Assumptions.InflationRate.InexactFloat64(),
			AdjustForInflation: *plan.Assumptions.AdjustForInflation,
		},
		AnnualExpense:     plan.AnnualExpense.InexactFloat64(),
		TargetSuccessRate: plan.TargetSuccessRate.InexactFloat64(),
		Trials:            plan.Trials,
	}
	if mode == domain.ModeBasic {
		params.RetirementPeriod = plan.RetirementPeriod
	} else {
		params.CurrentAge = plan.CurrentAge
		params.RetirementAge = plan.RetirementAge
		params.LifeExpectancy = plan.LifeExpectancy
		params.CurrentCorpus = plan.CurrentCorpus.InexactFloat64()
		params.AnnualContribution = plan.AnnualContribution.InexactFloat64()
		params.AdditionalRetirementIncome = plan.AdditionalRetirementIncome.InexactFloat64()
	}

	if err := params.Validate(); err != nil {
		return domain.PlanParameters{}, err
	}
	return params, nil
}

// ApplyDefaults fills every optional field the plan leaves out
func (ip *InputParser) ApplyDefaults(plan *PlanFile) {
	if plan.Trials == 0 {
		plan.Trials = DefaultTrials
	}
	if plan.TargetSuccessRate == nil {
		target := decimal.NewFromFloat(domain.DefaultTargetSuccessRate)
		plan.TargetSuccessRate = &target
	}
	a := &plan.Assumptions
	if a.ExpectedReturn == nil {
		a.ExpectedReturn = &DefaultExpectedReturn
	}
	if a.StandardDeviation == nil {
		a.StandardDeviation = &DefaultStandardDeviation
	}
	if a.InflationRate == nil {
		a.InflationRate = &DefaultInflationRate
	}
	if a.AdjustForInflation == nil {
		adjust := true
		a.AdjustForInflation = &adjust
	}
	if strings.EqualFold(strings.TrimSpace(plan.Mode), string(domain.ModeBasic)) && plan.RetirementPeriod == 0 {
		plan.RetirementPeriod = DefaultRetirementPeriod
	}
}

// ValidatePlan checks ranges and reports every failing field at once
func (ip *InputParser) ValidatePlan(plan *PlanFile) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	mode, err := domain.ParseMode(plan.Mode)
	if err != nil {
		return err
	}

	if plan.Trials < MinTrials || plan.Trials > MaxTrials {
		add("trials must be between %d and %d", MinTrials, MaxTrials)
	}
	if plan.TargetSuccessRate != nil && (plan.TargetSuccessRate.LessThanOrEqual(decimal.Zero) || plan.TargetSuccessRate.GreaterThan(hundred)) {
		add("target_success_rate must be in (0, 100]")
	}
	if plan.AnnualExpense.LessThanOrEqual(decimal.Zero) {
		add("annual_expense must be positive")
	}

	a := plan.Assumptions
	if a.ExpectedReturn != nil && outside(*a.ExpectedReturn, minExpectedReturn, maxExpectedReturn) {
		add("expected_return must be between %s and %s", minExpectedReturn, maxExpectedReturn)
	}
	if a.StandardDeviation != nil && outside(*a.StandardDeviation, minStandardDeviation, maxStandardDeviation) {
		add("standard_deviation must be between %s and %s", minStandardDeviation, maxStandardDeviation)
	}
	if a.InflationRate != nil && outside(*a.InflationRate, minInflation, maxInflation) {
		add("inflation_rate must be between %s and %s", minInflation, maxInflation)
	}

	switch mode {
	case domain.ModeBasic:
		if plan.RetirementPeriod < MinRetirementPeriod || plan.RetirementPeriod > MaxRetirementPeriod {
			add("retirement_period must be between %d and %d", MinRetirementPeriod, MaxRetirementPeriod)
		}
	case domain.ModeAdvanced:
		for _, f := range []struct {
			name  string
			value int
		}{
			{"current_age", plan.CurrentAge},
			{"retirement_age", plan.RetirementAge},
			{"life_expectancy", plan.LifeExpectancy},
		} {
			if f.value < MinAge || f.value > MaxAge {
				add("%s must be between %d and %d", f.name, MinAge, MaxAge)
			}
		}
		if plan.RetirementAge <= plan.CurrentAge {
			add("retirement_age must be greater than current_age")
		}
		if plan.LifeExpectancy <= plan.RetirementAge {
			add("life_expectancy must be greater than retirement_age")
		}
		if plan.CurrentCorpus.IsNegative() {
			add("current_corpus cannot be negative")
		}
		if plan.AnnualContribution.IsNegative() {
			add("annual_contribution cannot be negative")
		}
		if plan.AdditionalRetirementIncome.IsNegative() {
			add("additional_retirement_income cannot be negative")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPlan, strings.Join(problems, "; "))
	}
	return nil
}

// FromParameters renders parameters back into plan file form, e.g. to save
// the result of a what-if run.
func FromParameters(p domain.PlanParameters) PlanFile {
	ret := decimal.NewFromFloat(p.Assumptions.ExpectedReturn)
	sd := decimal.NewFromFloat(p.Assumptions.StandardDeviation)
	infl := decimal.NewFromFloat(p.Assumptions.InflationRate)
	adjust := p.Assumptions.AdjustForInflation
	plan := PlanFile{
		Mode:   string(p.Mode),
		Trials: p.Trials,
		Assumptions: AssumptionsFile{
			ExpectedReturn:     &ret,
			StandardDeviation:  &sd,
			InflationRate:      &infl,
			AdjustForInflation: &adjust,
		},
		AnnualExpense:              decimal.NewFromFloat(p.AnnualExpense).Round(2),
		RetirementPeriod:           p.RetirementPeriod,
		CurrentAge:                 p.CurrentAge,
		RetirementAge:              p.RetirementAge,
		LifeExpectancy:             p.LifeExpectancy,
		CurrentCorpus:              decimal.NewFromFloat(p.CurrentCorpus).Round(2),
		AnnualContribution:         decimal.NewFromFloat(p.AnnualContribution).Round(2),
		AdditionalRetirementIncome: decimal.NewFromFloat(p.AdditionalRetirementIncome).Round(2),
	}
	if p.TargetSuccessRate > 0 {
		target := decimal.NewFromFloat(p.TargetSuccessRate)
		plan.TargetSuccessRate = &target
	}
	return plan
}

// Marshal encodes a plan file as YAML
func Marshal(plan PlanFile) ([]byte, error) {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	return data, nil
}

func outside(v, lo, hi decimal.Decimal) bool {
	return v.LessThan(lo) || v.GreaterThan(hi)
}
