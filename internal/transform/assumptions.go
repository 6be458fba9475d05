package transform

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// SetExpectedReturn overrides the annual expected return (fraction).
type SetExpectedReturn struct {
	Rate float64
}

func (sr *SetExpectedReturn) Name() string { return "return" }

func (sr *SetExpectedReturn) Description() string {
	return fmt.Sprintf("Assume a %.2f%% expected annual return", sr.Rate*100)
}

func (sr *SetExpectedReturn) Validate(domain.PlanParameters) error {
	if sr.Rate <= -1 {
		return NewTransformError(sr.Name(), "validate", "return must be greater than -100%", nil)
	}
	return nil
}

func (sr *SetExpectedReturn) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	a := base.Assumptions
	a.ExpectedReturn = sr.Rate
	return base.WithAssumptions(a), nil
}

// SetVolatility overrides the annual standard deviation of returns.
type SetVolatility struct {
	StdDev float64
}

func (sv *SetVolatility) Name() string { return "volatility" }

func (sv *SetVolatility) Description() string {
	return fmt.Sprintf("Assume %.2f%% annual volatility", sv.StdDev*100)
}

func (sv *SetVolatility) Validate(domain.PlanParameters) error {
	if sv.StdDev < 0 {
		return NewTransformError(sv.Name(), "validate", "standard deviation cannot be negative", nil)
	}
	return nil
}

func (sv *SetVolatility) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	a := base.Assumptions
	a.StandardDeviation = sv.StdDev
	return base.WithAssumptions(a), nil
}

// SetInflation overrides the annual inflation rate.
type SetInflation struct {
	Rate float64
}

func (si *SetInflation) Name() string { return "inflation" }

func (si *SetInflation) Description() string {
	return fmt.Sprintf("Assume %.2f%% annual inflation", si.Rate*100)
}

func (si *SetInflation) Validate(domain.PlanParameters) error {
	if si.Rate < 0 {
		return NewTransformError(si.Name(), "validate", "inflation cannot be negative", nil)
	}
	return nil
}

func (si *SetInflation) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	a := base.Assumptions
	a.InflationRate = si.Rate
	return base.WithAssumptions(a), nil
}
