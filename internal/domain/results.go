package domain

// SimulationResult is the raw output of one Monte Carlo batch.
type SimulationResult struct {
	// SuccessRate is the share of trials that never depleted, 0-100.
	SuccessRate float64 `json:"successRate"`
	// TerminalValues holds one ending corpus per trial; depleted trials are 0.
	TerminalValues []float64 `json:"terminalValues,omitempty"`
}

// Trials returns the number of trials in the batch.
func (r SimulationResult) Trials() int { return len(r.TerminalValues) }

// PercentileBand summarises a terminal distribution.
type PercentileBand struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}
