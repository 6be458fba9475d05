package domain

// Phase tells whether a tracked year is saving or spending.
type Phase string

const (
	PhaseAccumulating Phase = "accumulating"
	PhaseWithdrawing  Phase = "withdrawing"
)

// YearlySnapshot is one age of the year-by-year corpus track.
type YearlySnapshot struct {
	Age   int   `json:"age"`
	Phase Phase `json:"phase"`

	// StartCorpus is the carried median plus this year's contribution.
	StartCorpus     float64 `json:"startCorpus"`
	Contribution    float64 `json:"contribution"`
	Withdrawal      float64 `json:"withdrawal"`
	ExpectedExpense float64 `json:"expectedExpense"`
	// Returns is the deterministic expected-return figure, informational only.
	Returns float64 `json:"returns"`

	// EndCorpus is the median of this year's trial distribution.
	EndCorpus float64 `json:"endCorpus"`
	P5        float64 `json:"p5"`
	P95       float64 `json:"p95"`

	// DepletionRisk is the share of this year's trials at or below zero, 0-100.
	DepletionRisk float64 `json:"depletionRisk"`
	// PointSuccessRate is 100 - DepletionRisk for this year only. It is not the
	// whole-horizon success rate; see CorpusTrack.OverallSuccessRate.
	PointSuccessRate float64 `json:"pointSuccessRate"`

	TerminalValues []float64 `json:"-"`
}

// CorpusTrack is the chronological output of the yearly tracker.
type CorpusTrack struct {
	Snapshots []YearlySnapshot `json:"snapshots"`
	// OverallSuccessRate is the whole-horizon engine statistic for the plan,
	// computed from the deterministic corpus at retirement.
	OverallSuccessRate float64 `json:"overallSuccessRate"`
}

// SnapshotAt returns the snapshot for an age, if tracked.
func (t CorpusTrack) SnapshotAt(age int) (YearlySnapshot, bool) {
	for _, s := range t.Snapshots {
		if s.Age == age {
			return s, true
		}
	}
	return YearlySnapshot{}, false
}

// FirstRiskAge returns the first age whose depletion risk exceeds threshold (percent).
func (t CorpusTrack) FirstRiskAge(threshold float64) (int, bool) {
	for _, s := range t.Snapshots {
		if s.DepletionRisk > threshold {
			return s.Age, true
		}
	}
	return 0, false
}

// Medians returns the median ending corpus per snapshot, in order.
func (t CorpusTrack) Medians() []float64 {
	out := make([]float64, len(t.Snapshots))
	for i, s := range t.Snapshots {
		out[i] = s.EndCorpus
	}
	return out
}
