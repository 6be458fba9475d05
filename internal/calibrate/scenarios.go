package calibrate

import (
	"context"
	"fmt"
	"math"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

const (
	// DefaultMaxDelayYears bounds the retirement-delay scan.
	DefaultMaxDelayYears = 10

	contributionRangeFactor = 2.0
	contributionStartFactor = 0.2
	expenseRangeFactor      = 0.4
	expenseStartFactor      = 0.1
	expenseCapFactor        = 0.5
	balancedStepFactor      = 0.1
)

// ScenarioCalibrator searches the contribution, retirement-age and expense
// levers for the smallest change that reaches a target success rate. Every
// candidate plan is a modified copy; the caller's parameters are never changed.
type ScenarioCalibrator struct {
	Sim           Simulator
	Options       Options
	MaxDelayYears int
}

// NewScenarioCalibrator creates a calibrator.
func NewScenarioCalibrator(sim Simulator, options Options) *ScenarioCalibrator {
	return &ScenarioCalibrator{Sim: sim, Options: options, MaxDelayYears: DefaultMaxDelayYears}
}

// NewDefaultScenarioCalibrator creates a calibrator with default options.
func NewDefaultScenarioCalibrator(sim Simulator) *ScenarioCalibrator {
	return NewScenarioCalibrator(sim, DefaultLeverOptions())
}

// SuccessRate evaluates a plan at its deterministic corpus at retirement.
func (s *ScenarioCalibrator) SuccessRate(ctx context.Context, p domain.PlanParameters) (float64, error) {
	rate, err := s.Sim.SimulateSuccessRate(ctx, s.Sim.ProjectDeterministicCorpus(p), p)
	if err != nil {
		return 0, &CalibrationError{Operation: "success_rate", Message: "simulation failed", Cause: err}
	}
	return rate, nil
}

// GenerateScenarios runs every lever search for the plan's own target. When
// the unchanged plan already meets it, only the current rate is returned.
func (s *ScenarioCalibrator) GenerateScenarios(ctx context.Context, p domain.PlanParameters) (domain.ScenarioSet, error) {
	if err := requireAgeBased(p); err != nil {
		return domain.ScenarioSet{}, err
	}
	target := p.TargetOrDefault()
	current, err := s.SuccessRate(ctx, p)
	if err != nil {
		return domain.ScenarioSet{}, err
	}
	set := domain.ScenarioSet{Target: target, CurrentSuccessRate: current}
	if current >= target {
		set.MeetsTarget = true
		return set, nil
	}

	contribution, err := s.RequiredAdditionalContribution(ctx, p, target)
	if err != nil {
		return domain.ScenarioSet{}, err
	}
	delay, err := s.RequiredRetirementDelay(ctx, p, target)
	if err != nil {
		return domain.ScenarioSet{}, err
	}
	expense, err := s.RequiredExpenseReduction(ctx, p, target)
	if err != nil {
		return domain.ScenarioSet{}, err
	}
	balanced, err := s.balancedFrom(ctx, p, target, Levers{
		Contribution:     contribution.Amount,
		DelayYears:       delay.DelayYears,
		ExpenseReduction: expense.Amount,
	})
	if err != nil {
		return domain.ScenarioSet{}, err
	}

	set.Contribution = &contribution
	set.Delay = &delay
	set.Expense = &expense
	set.Balanced = &balanced
	return set, nil
}

// RequiredAdditionalContribution searches the extra annual contribution in
// [0, 2x current contribution]. A plan without contributions is bracketed by
// its annual expense instead.
func (s *ScenarioCalibrator) RequiredAdditionalContribution(ctx context.Context, p domain.PlanParameters, target float64) (domain.ScenarioAdjustment, error) {
	if err := requireAgeBased(p); err != nil {
		return domain.ScenarioAdjustment{}, err
	}
	scale := p.AnnualContribution
	if scale <= 0 {
		scale = p.AnnualExpense
	}
	amount, rate, err := s.bisectLever(ctx, "additional_contribution", target,
		scale*contributionStartFactor, scale*contributionRangeFactor, math.Inf(1),
		func(extra float64) domain.PlanParameters {
			return p.WithAnnualContribution(p.AnnualContribution + extra)
		})
	if err != nil {
		return domain.ScenarioAdjustment{}, err
	}
	return domain.ScenarioAdjustment{Lever: domain.LeverContribution, Amount: amount, SuccessRate: rate}, nil
}

// RequiredRetirementDelay scans delays of 1..MaxDelayYears and returns the
// first that reaches the target. Delays that would reach life expectancy are
// not candidates; if none qualifies the largest candidate is returned, and
// with no candidate at all the delay is 0 at the plan's current rate.
func (s *ScenarioCalibrator) RequiredRetirementDelay(ctx context.Context, p domain.PlanParameters, target float64) (domain.ScenarioAdjustment, error) {
	if err := requireAgeBased(p); err != nil {
		return domain.ScenarioAdjustment{}, err
	}
	current, err := s.SuccessRate(ctx, p)
	if err != nil {
		return domain.ScenarioAdjustment{}, err
	}
	adj := domain.ScenarioAdjustment{Lever: domain.LeverDelay, SuccessRate: current}
	for delay := 1; delay <= s.MaxDelayYears; delay++ {
		if p.RetirementAge+delay >= p.LifeExpectancy {
			break
		}
		select {
		case <-ctx.Done():
			return domain.ScenarioAdjustment{}, ctx.Err()
		default:
		}
		rate, err := s.SuccessRate(ctx, p.WithRetirementAge(p.RetirementAge+delay))
		if err != nil {
			return domain.ScenarioAdjustment{}, err
		}
		adj.DelayYears = delay
		adj.SuccessRate = rate
		if rate >= target {
			return adj, nil
		}
	}
	return adj, nil
}

// RequiredExpenseReduction searches the annual expense cut in
// [0, 0.4x expense]; after the safety margin the cut is capped at half the
// expense.
func (s *ScenarioCalibrator) RequiredExpenseReduction(ctx context.Context, p domain.PlanParameters, target float64) (domain.ScenarioAdjustment, error) {
	if err := requireAgeBased(p); err != nil {
		return domain.ScenarioAdjustment{}, err
	}
	amount, rate, err := s.bisectLever(ctx, "expense_reduction", target,
		p.AnnualExpense*expenseStartFactor, p.AnnualExpense*expenseRangeFactor, p.AnnualExpense*expenseCapFactor,
		func(cut float64) domain.PlanParameters {
			return p.WithAnnualExpense(p.AnnualExpense - cut)
		})
	if err != nil {
		return domain.ScenarioAdjustment{}, err
	}
	return domain.ScenarioAdjustment{Lever: domain.LeverExpense, Amount: amount, SuccessRate: rate}, nil
}

// SuccessRateIncrease is the change in success rate from applying the three
// levers together.
func (s *ScenarioCalibrator) SuccessRateIncrease(ctx context.Context, p domain.PlanParameters, delayYears int, extraContribution, expenseReduction float64) (float64, error) {
	base, err := s.SuccessRate(ctx, p)
	if err != nil {
		return 0, err
	}
	adjusted, err := s.SuccessRate(ctx, p.WithAdjustments(delayYears, extraContribution, expenseReduction))
	if err != nil {
		return 0, err
	}
	return adjusted - base, nil
}

// Balanced computes the single-lever requirements and blends them.
func (s *ScenarioCalibrator) Balanced(ctx context.Context, p domain.PlanParameters, target float64) (domain.BalancedAdjustment, error) {
	contribution, err := s.RequiredAdditionalContribution(ctx, p, target)
	if err != nil {
		return domain.BalancedAdjustment{}, err
	}
	delay, err := s.RequiredRetirementDelay(ctx, p, target)
	if err != nil {
		return domain.BalancedAdjustment{}, err
	}
	expense, err := s.RequiredExpenseReduction(ctx, p, target)
	if err != nil {
		return domain.BalancedAdjustment{}, err
	}
	return s.balancedFrom(ctx, p, target, Levers{
		Contribution:     contribution.Amount,
		DelayYears:       delay.DelayYears,
		ExpenseReduction: expense.Amount,
	})
}

// balancedFrom starts at half of every full requirement and grows the lever
// furthest from its own requirement (ties: delay, contribution, expense)
// until the target is met or every lever is at its full value.
func (s *ScenarioCalibrator) balancedFrom(ctx context.Context, p domain.PlanParameters, target float64, full Levers) (domain.BalancedAdjustment, error) {
	adj := domain.BalancedAdjustment{
		AdditionalContribution: full.Contribution / 2,
		DelayYears:             full.DelayYears / 2,
		ExpenseReduction:       full.ExpenseReduction / 2,
	}
	rateOf := func() (float64, error) {
		return s.SuccessRate(ctx, p.WithAdjustments(adj.DelayYears, adj.AdditionalContribution, adj.ExpenseReduction))
	}

	rate, err := rateOf()
	if err != nil {
		return domain.BalancedAdjustment{}, err
	}
	for rate < target {
		select {
		case <-ctx.Done():
			return domain.BalancedAdjustment{}, ctx.Err()
		default:
		}

		lever, ok := furthestLever(adj, full)
		if !ok {
			break
		}
		switch lever {
		case domain.LeverDelay:
			adj.DelayYears++
		case domain.LeverContribution:
			adj.AdditionalContribution = math.Min(full.Contribution, adj.AdditionalContribution+full.Contribution*balancedStepFactor)
		case domain.LeverExpense:
			adj.ExpenseReduction = math.Min(full.ExpenseReduction, adj.ExpenseReduction+full.ExpenseReduction*balancedStepFactor)
		}
		if rate, err = rateOf(); err != nil {
			return domain.BalancedAdjustment{}, err
		}
	}

	adj.SuccessRate = rate
	adj.Description = adj.Describe(nil)
	return adj, nil
}

// furthestLever picks the lever with the largest remaining share of its full
// requirement. ok is false once every lever is at its full value.
func furthestLever(adj domain.BalancedAdjustment, full Levers) (domain.Lever, bool) {
	gap := func(current, required float64) float64 {
		if required <= 0 {
			return 0
		}
		return (required - current) / required
	}
	candidates := []struct {
		lever domain.Lever
		gap   float64
	}{
		{domain.LeverDelay, gap(float64(adj.DelayYears), float64(full.DelayYears))},
		{domain.LeverContribution, gap(adj.AdditionalContribution, full.Contribution)},
		{domain.LeverExpense, gap(adj.ExpenseReduction, full.ExpenseReduction)},
	}
	best, bestGap := domain.Lever(""), 0.0
	for _, c := range candidates {
		if c.gap > bestGap {
			best, bestGap = c.lever, c.gap
		}
	}
	return best, best != ""
}

// bisectLever searches an amount in [0, upper] starting at initial. After
// the budget, a final estimate still short of the target by more than the
// margin threshold is marked up by MarginFactor times the gap, then capped.
func (s *ScenarioCalibrator) bisectLever(ctx context.Context, op string, target, initial, upper, limit float64, apply func(amount float64) domain.PlanParameters) (float64, float64, error) {
	rateAt := func(amount float64) (float64, error) {
		rate, err := s.SuccessRate(ctx, apply(amount))
		if err != nil {
			return 0, &CalibrationError{Operation: op, Message: fmt.Sprintf("evaluating %.2f", amount), Cause: err}
		}
		return rate, nil
	}

	lower, amount := 0.0, initial
	for i := 0; i < s.Options.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		default:
		}

		rate, err := rateAt(amount)
		if err != nil {
			return 0, 0, err
		}
		if math.Abs(rate-target) < s.Options.Tolerance {
			return amount, rate, nil
		}
		if rate < target {
			lower = amount
			amount = (amount + upper) / 2
		} else {
			upper = amount
			amount = (amount + lower) / 2
		}
	}

	rate, err := rateAt(amount)
	if err != nil {
		return 0, 0, err
	}
	if rate < target-s.Options.MarginThreshold {
		amount *= 1 + domain.ToFraction(target-rate)*s.Options.MarginFactor
		amount = math.Min(amount, limit)
		if rate, err = rateAt(amount); err != nil {
			return 0, 0, err
		}
	}
	return amount, rate, nil
}

func requireAgeBased(p domain.PlanParameters) error {
	if p.Mode != domain.ModeAdvanced {
		return fmt.Errorf("%w: scenario search needs an age-based plan", domain.ErrInvalidInput)
	}
	return nil
}
