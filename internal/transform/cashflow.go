package transform

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// AddContribution raises the annual contribution during accumulation.
type AddContribution struct {
	Amount float64
}

func (ac *AddContribution) Name() string {
	return "contribute"
}

func (ac *AddContribution) Description() string {
	return fmt.Sprintf("Contribute %.0f more per year", ac.Amount)
}

func (ac *AddContribution) Validate(base domain.PlanParameters) error {
	if err := requireAdvanced(ac.Name(), base); err != nil {
		return err
	}
	if base.AnnualContribution+ac.Amount < 0 {
		return NewTransformError(ac.Name(), "validate", "contribution cannot become negative", nil)
	}
	return nil
}

func (ac *AddContribution) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	return base.WithAnnualContribution(base.AnnualContribution + ac.Amount), nil
}

// ReduceExpense lowers the annual expense in today's money.
type ReduceExpense struct {
	Amount float64
}

func (re *ReduceExpense) Name() string {
	return "reduce-expense"
}

func (re *ReduceExpense) Description() string {
	return fmt.Sprintf("Reduce annual expenses by %.0f", re.Amount)
}

func (re *ReduceExpense) Validate(base domain.PlanParameters) error {
	if re.Amount < 0 {
		return NewTransformError(re.Name(), "validate", "amount must be non-negative", nil)
	}
	if re.Amount > base.AnnualExpense {
		return NewTransformError(re.Name(), "validate",
			fmt.Sprintf("reduction %.0f exceeds annual expense %.0f", re.Amount, base.AnnualExpense), nil)
	}
	return nil
}

func (re *ReduceExpense) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	return base.WithAnnualExpense(base.AnnualExpense - re.Amount), nil
}

// SetAdditionalIncome replaces the retirement income offset (pension, rent, ...).
type SetAdditionalIncome struct {
	Amount float64
}

func (si *SetAdditionalIncome) Name() string {
	return "income"
}

func (si *SetAdditionalIncome) Description() string {
	return fmt.Sprintf("Set additional retirement income to %.0f per year", si.Amount)
}

func (si *SetAdditionalIncome) Validate(base domain.PlanParameters) error {
	if err := requireAdvanced(si.Name(), base); err != nil {
		return err
	}
	if si.Amount < 0 {
		return NewTransformError(si.Name(), "validate", "income must be non-negative", nil)
	}
	return nil
}

func (si *SetAdditionalIncome) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	return base.WithAdditionalIncome(si.Amount), nil
}

// SetTargetSuccessRate changes the success rate the calibrators aim for.
type SetTargetSuccessRate struct {
	Rate float64 // percent, 0-100
}

func (st *SetTargetSuccessRate) Name() string {
	return "target"
}

func (st *SetTargetSuccessRate) Description() string {
	return fmt.Sprintf("Target a %.1f%% success rate", st.Rate)
}

func (st *SetTargetSuccessRate) Validate(domain.PlanParameters) error {
	if st.Rate <= 0 || st.Rate > 100 {
		return NewTransformError(st.Name(), "validate", fmt.Sprintf("rate must be in (0,100], got %.2f", st.Rate), nil)
	}
	return nil
}

func (st *SetTargetSuccessRate) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	return base.WithTargetSuccessRate(st.Rate), nil
}
