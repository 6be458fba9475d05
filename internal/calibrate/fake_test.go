package calibrate

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// sigmoidSim is a deterministic stand-in for the engine: success depends on
// the corpus-to-expense ratio, 25x being a coin flip.
type sigmoidSim struct {
	calls atomic.Int64
}

func (s *sigmoidSim) SimulateSuccessRate(ctx context.Context, corpus float64, p domain.PlanParameters) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.calls.Add(1)
	if p.AnnualExpense <= 0 {
		return 100, nil
	}
	ratio := corpus / p.AnnualExpense
	return 100 / (1 + math.Exp(-(ratio-25)/2)), nil
}

func (s *sigmoidSim) ProjectDeterministicCorpus(p domain.PlanParameters) float64 {
	return p.CurrentCorpus + p.AnnualContribution*float64(p.YearsToRetirement())
}

// stuckSim never moves, so every search exhausts its budget.
type stuckSim struct {
	rate float64
}

func (s stuckSim) SimulateSuccessRate(ctx context.Context, _ float64, _ domain.PlanParameters) (float64, error) {
	return s.rate, ctx.Err()
}

func (s stuckSim) ProjectDeterministicCorpus(p domain.PlanParameters) float64 {
	return p.CurrentCorpus
}

// requiredRatio is the corpus/expense ratio at which sigmoidSim hits rate.
func requiredRatio(rate float64) float64 {
	f := rate / 100
	return 25 + 2*math.Log(f/(1-f))
}

func testPlan() domain.PlanParameters {
	return domain.PlanParameters{
		Mode: domain.ModeAdvanced,
		Assumptions: domain.Assumptions{
			ExpectedReturn:     0.07,
			StandardDeviation:  0.10,
			InflationRate:      0.03,
			AdjustForInflation: true,
		},
		AnnualExpense:      40000,
		CurrentAge:         40,
		RetirementAge:      65,
		LifeExpectancy:     90,
		CurrentCorpus:      100000,
		AnnualContribution: 36000,
		TargetSuccessRate:  85,
		Trials:             1000,
	}
}
