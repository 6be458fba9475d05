package domain

import "time"

// PlanReport collects the results of one planner run for the renderers.
type PlanReport struct {
	Params      PlanParameters `json:"params"`
	GeneratedAt time.Time      `json:"generatedAt"`

	// ProjectedCorpus is the deterministic corpus at retirement (advanced mode).
	ProjectedCorpus float64 `json:"projectedCorpus,omitempty"`
	// RequiredCorpus is the calibrated corpus that reaches the target.
	RequiredCorpus float64 `json:"requiredCorpus"`
	// RequiredCorpusConverged is false when the search ran out of iterations.
	RequiredCorpusConverged bool `json:"requiredCorpusConverged"`
	// SuccessRate is evaluated at ProjectedCorpus in advanced mode and at
	// RequiredCorpus in basic mode.
	SuccessRate float64        `json:"successRate"`
	Terminal    PercentileBand `json:"terminal"`

	// ExpenseAtRetirement is the first retirement year's inflated expense.
	ExpenseAtRetirement float64 `json:"expenseAtRetirement,omitempty"`

	Scenarios *ScenarioSet `json:"scenarios,omitempty"`
	Track     *CorpusTrack `json:"track,omitempty"`
}

// Shortfall is RequiredCorpus - ProjectedCorpus; negative means surplus.
func (r PlanReport) Shortfall() float64 {
	return r.RequiredCorpus - r.ProjectedCorpus
}

// MeetsTarget reports whether the evaluated success rate reaches the target.
func (r PlanReport) MeetsTarget() bool {
	return r.SuccessRate >= r.Params.TargetOrDefault()
}
