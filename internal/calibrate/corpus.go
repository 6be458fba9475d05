package calibrate

import (
	"context"
	"math"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// safeWithdrawalRate seeds the search with the 4% rule.
const safeWithdrawalRate = 0.04

// CorpusCalibrator finds the starting corpus that reaches a plan's target
// success rate.
type CorpusCalibrator struct {
	Sim     Simulator
	Options Options
}

// NewCorpusCalibrator creates a calibrator.
func NewCorpusCalibrator(sim Simulator, options Options) *CorpusCalibrator {
	return &CorpusCalibrator{Sim: sim, Options: options}
}

// NewDefaultCorpusCalibrator creates a calibrator with default options.
func NewDefaultCorpusCalibrator(sim Simulator) *CorpusCalibrator {
	return NewCorpusCalibrator(sim, DefaultCorpusOptions())
}

// RequiredCorpus bisects over the starting corpus in [0.5, 3] times the 4%
// rule guess. The result is approximate: when the budget runs out short of
// the target a safety margin is applied and the estimate is returned as is.
func (c *CorpusCalibrator) RequiredCorpus(ctx context.Context, p domain.PlanParameters) (CorpusResult, error) {
	if p.AnnualExpense <= 0 {
		return CorpusResult{SuccessRate: 100, Converged: true}, nil
	}

	// Compared on the 0-1 scale.
	target := domain.ToFraction(p.TargetOrDefault())
	tolerance := domain.ToFraction(c.Options.Tolerance)

	corpus := p.AnnualExpense / safeWithdrawalRate
	lower, upper := corpus*0.5, corpus*3.0

	rateAt := func(corpus float64) (float64, error) {
		rate, err := c.Sim.SimulateSuccessRate(ctx, corpus, p)
		if err != nil {
			return 0, &CalibrationError{Operation: "required_corpus", Message: "simulation failed", Cause: err}
		}
		return domain.ToFraction(rate), nil
	}

	result := CorpusResult{}
	for result.Iterations < c.Options.MaxIterations {
		result.Iterations++

		select {
		case <-ctx.Done():
			return CorpusResult{}, ctx.Err()
		default:
		}

		rate, err := rateAt(corpus)
		if err != nil {
			return CorpusResult{}, err
		}
		if math.Abs(rate-target) < tolerance {
			result.Converged = true
			break
		}
		if rate < target {
			lower = corpus
			corpus = (corpus + upper) / 2
		} else {
			upper = corpus
			corpus = (corpus + lower) / 2
		}
	}

	rate, err := rateAt(corpus)
	if err != nil {
		return CorpusResult{}, err
	}
	if target-rate > domain.ToFraction(c.Options.MarginThreshold) {
		corpus *= 1 + (target-rate)*c.Options.MarginFactor
		result.MarginApplied = true
		if rate, err = rateAt(corpus); err != nil {
			return CorpusResult{}, err
		}
	}

	result.Corpus = corpus
	result.SuccessRate = domain.ToPercent(rate)
	result.Converged = result.Converged || math.Abs(rate-target) < tolerance
	return result, nil
}
