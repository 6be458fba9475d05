package transform

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// DelayRetirement moves the retirement age later by a number of years.
// This is the "work a few more years" lever.
type DelayRetirement struct {
	Years int
}

func (dr *DelayRetirement) Name() string {
	return "delay"
}

func (dr *DelayRetirement) Description() string {
	return fmt.Sprintf("Delay retirement by %d year(s)", dr.Years)
}

func (dr *DelayRetirement) Validate(base domain.PlanParameters) error {
	if err := requireAdvanced(dr.Name(), base); err != nil {
		return err
	}
	if dr.Years < 0 {
		return NewTransformError(dr.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", dr.Years), nil)
	}
	if base.RetirementAge+dr.Years >= base.LifeExpectancy {
		return NewTransformError(dr.Name(), "validate",
			fmt.Sprintf("retirement at %d would not precede life expectancy %d", base.RetirementAge+dr.Years, base.LifeExpectancy), nil)
	}
	return nil
}

func (dr *DelayRetirement) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	return base.WithRetirementAge(base.RetirementAge + dr.Years), nil
}

// SetRetirementAge sets an absolute retirement age.
// Unlike DelayRetirement which is relative, this sets an exact age.
type SetRetirementAge struct {
	Age int
}

func (sra *SetRetirementAge) Name() string {
	return "retire-at"
}

func (sra *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at age %d", sra.Age)
}

func (sra *SetRetirementAge) Validate(base domain.PlanParameters) error {
	if err := requireAdvanced(sra.Name(), base); err != nil {
		return err
	}
	if sra.Age <= base.CurrentAge || sra.Age >= base.LifeExpectancy {
		return NewTransformError(sra.Name(), "validate",
			fmt.Sprintf("age %d must lie between current age %d and life expectancy %d", sra.Age, base.CurrentAge, base.LifeExpectancy), nil)
	}
	return nil
}

func (sra *SetRetirementAge) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	return base.WithRetirementAge(sra.Age), nil
}
