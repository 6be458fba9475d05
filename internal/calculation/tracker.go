package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// YearlyCorpusTracker builds the year-by-year corpus track by chaining
// one-year simulations, carrying each year's median into the next.
type YearlyCorpusTracker struct {
	engine *Engine
	logger Logger
}

// NewYearlyCorpusTracker creates a tracker on top of engine.
func NewYearlyCorpusTracker(engine *Engine) *YearlyCorpusTracker {
	return &YearlyCorpusTracker{engine: engine, logger: engine.logger}
}

// Track returns one snapshot per age from current age to life expectancy
// inclusive, plus the whole-horizon success rate of the plan.
func (t *YearlyCorpusTracker) Track(ctx context.Context, p domain.PlanParameters) (domain.CorpusTrack, error) {
	if err := p.Validate(); err != nil {
		return domain.CorpusTrack{}, err
	}
	if p.Mode != domain.ModeAdvanced {
		return domain.CorpusTrack{}, fmt.Errorf("%w: yearly tracking needs an age-based plan", domain.ErrInvalidInput)
	}

	snapshots := make([]domain.YearlySnapshot, 0, p.HorizonYears())
	carried := p.CurrentCorpus
	starts := make([]float64, p.Trials)

	for age := p.CurrentAge; age <= p.LifeExpectancy; age++ {
		yearIndex := age - p.CurrentAge
		snap := domain.YearlySnapshot{
			Age:             age,
			ExpectedExpense: p.AnnualExpense * p.InflationFactor(yearIndex),
			Returns:         carried * p.Assumptions.ExpectedReturn,
		}
		if age < p.RetirementAge {
			snap.Phase = domain.PhaseAccumulating
			snap.Contribution = p.AnnualContribution
		} else {
			snap.Phase = domain.PhaseWithdrawing
			snap.Withdrawal = p.NetAnnualExpense(yearIndex)
		}
		snap.StartCorpus = carried + snap.Contribution

		for i := range starts {
			starts[i] = carried
		}
		values, err := t.engine.SimulateYear(ctx, starts, snap.Contribution, snap.Withdrawal, p, uint64(yearIndex))
		if err != nil {
			return domain.CorpusTrack{}, fmt.Errorf("simulating age %d: %w", age, err)
		}

		band := Band(values)
		snap.EndCorpus = band.P50
		snap.P5 = band.P5
		snap.P95 = band.P95
		snap.DepletionRisk = DepletionRate(values)
		snap.PointSuccessRate = 100 - snap.DepletionRisk
		snap.TerminalValues = values

		snapshots = append(snapshots, snap)
		carried = snap.EndCorpus
	}

	overall, err := t.engine.SimulateSuccessRate(ctx, ProjectDeterministicCorpus(p), p)
	if err != nil {
		return domain.CorpusTrack{}, fmt.Errorf("simulating retirement horizon: %w", err)
	}
	t.logger.Debugf("tracked %d years, overall success %.1f%%", len(snapshots), overall)

	return domain.CorpusTrack{Snapshots: snapshots, OverallSuccessRate: overall}, nil
}
