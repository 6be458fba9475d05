// Package planner runs the calculations behind each report kind on top of
// the simulation engine and the calibrators.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/calibrate"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/transform"
)

// Planner produces PlanReports. It is safe for concurrent use when its
// engine is.
type Planner struct {
	engine    *calculation.Engine
	corpus    *calibrate.CorpusCalibrator
	scenarios *calibrate.ScenarioCalibrator
	tracker   *calculation.YearlyCorpusTracker
	now       func() time.Time
}

// New creates a planner with the default calibrator options.
func New(engine *calculation.Engine) *Planner {
	return &Planner{
		engine:    engine,
		corpus:    calibrate.NewDefaultCorpusCalibrator(engine),
		scenarios: calibrate.NewDefaultScenarioCalibrator(engine),
		tracker:   calculation.NewYearlyCorpusTracker(engine),
		now:       time.Now,
	}
}

// AdvancedOptions selects the optional sections of an advanced report.
type AdvancedOptions struct {
	Scenarios bool
	Track     bool
}

// RunBasic calibrates the corpus a flat expense needs over the retirement
// period and describes the terminal balances at that corpus.
func (pl *Planner) RunBasic(ctx context.Context, p domain.PlanParameters) (*domain.PlanReport, error) {
	if p.Mode != domain.ModeBasic {
		return nil, fmt.Errorf("%w: basic report needs a basic plan", domain.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	required, err := pl.corpus.RequiredCorpus(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("calibrating required corpus: %w", err)
	}
	result, err := pl.engine.SimulateTerminalValues(ctx, required.Corpus, p)
	if err != nil {
		return nil, fmt.Errorf("simulating required corpus: %w", err)
	}

	return &domain.PlanReport{
		Params:                  p,
		GeneratedAt:             pl.now(),
		RequiredCorpus:          required.Corpus,
		RequiredCorpusConverged: required.Converged,
		SuccessRate:             result.SuccessRate,
		Terminal:                calculation.Band(result.TerminalValues),
		ExpenseAtRetirement:     p.AnnualExpense,
	}, nil
}

// RunAdvanced projects the corpus at retirement, evaluates it, calibrates the
// corpus the target needs and optionally adds lever scenarios and the
// yearly track.
func (pl *Planner) RunAdvanced(ctx context.Context, p domain.PlanParameters, opts AdvancedOptions) (*domain.PlanReport, error) {
	if p.Mode != domain.ModeAdvanced {
		return nil, fmt.Errorf("%w: advanced report needs an age-based plan", domain.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	projected := pl.engine.ProjectDeterministicCorpus(p)
	result, err := pl.engine.SimulateTerminalValues(ctx, projected, p)
	if err != nil {
		return nil, fmt.Errorf("simulating projected corpus: %w", err)
	}
	required, err := pl.corpus.RequiredCorpus(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("calibrating required corpus: %w", err)
	}

	report := &domain.PlanReport{
		Params:                  p,
		GeneratedAt:             pl.now(),
		ProjectedCorpus:         projected,
		RequiredCorpus:          required.Corpus,
		RequiredCorpusConverged: required.Converged,
		SuccessRate:             result.SuccessRate,
		Terminal:                calculation.Band(result.TerminalValues),
		ExpenseAtRetirement:     p.AnnualExpense * p.InflationFactor(p.YearsToRetirement()),
	}

	if opts.Scenarios {
		set, err := pl.scenarios.GenerateScenarios(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("generating scenarios: %w", err)
		}
		report.Scenarios = &set
	}
	if opts.Track {
		track, err := pl.tracker.Track(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("tracking corpus: %w", err)
		}
		report.Track = &track
	}
	return report, nil
}

// RunTrack produces an advanced report with the yearly track only.
func (pl *Planner) RunTrack(ctx context.Context, p domain.PlanParameters) (*domain.PlanReport, error) {
	return pl.RunAdvanced(ctx, p, AdvancedOptions{Track: true})
}

// RunScenarios produces an advanced report with the lever scenarios.
func (pl *Planner) RunScenarios(ctx context.Context, p domain.PlanParameters) (*domain.PlanReport, error) {
	return pl.RunAdvanced(ctx, p, AdvancedOptions{Scenarios: true})
}

// WhatIfResult compares a plan with a transformed copy of itself.
type WhatIfResult struct {
	Base            domain.PlanParameters `json:"base"`
	Adjusted        domain.PlanParameters `json:"adjusted"`
	Applied         []string              `json:"applied"`
	BaseCorpus      float64               `json:"baseCorpus"`
	AdjustedCorpus  float64               `json:"adjustedCorpus"`
	BaseRate        float64               `json:"baseRate"`
	AdjustedRate    float64               `json:"adjustedRate"`
	RateImprovement float64               `json:"rateImprovement"`
}

// WhatIf applies transforms to p and reports the success rate before and
// after, each evaluated at its own deterministic corpus at retirement.
func (pl *Planner) WhatIf(ctx context.Context, p domain.PlanParameters, transforms []transform.ScenarioTransform) (*WhatIfResult, error) {
	adjusted, err := transform.ApplyTransforms(p, transforms)
	if err != nil {
		return nil, err
	}

	baseRate, err := pl.scenarios.SuccessRate(ctx, p)
	if err != nil {
		return nil, err
	}
	adjustedRate, err := pl.scenarios.SuccessRate(ctx, adjusted)
	if err != nil {
		return nil, err
	}

	applied := make([]string, len(transforms))
	for i, t := range transforms {
		applied[i] = t.Description()
	}
	return &WhatIfResult{
		Base:            p,
		Adjusted:        adjusted,
		Applied:         applied,
		BaseCorpus:      pl.engine.ProjectDeterministicCorpus(p),
		AdjustedCorpus:  pl.engine.ProjectDeterministicCorpus(adjusted),
		BaseRate:        baseRate,
		AdjustedRate:    adjustedRate,
		RateImprovement: adjustedRate - baseRate,
	}, nil
}
