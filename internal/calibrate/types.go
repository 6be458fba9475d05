package calibrate

import (
	"context"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// Simulator is the objective the calibrators search over.
type Simulator interface {
	SimulateSuccessRate(ctx context.Context, startingCorpus float64, p domain.PlanParameters) (float64, error)
	ProjectDeterministicCorpus(p domain.PlanParameters) float64
}

// Options configures a bisection search. Rates are in percentage points.
type Options struct {
	MaxIterations int     // bisection steps
	Tolerance     float64 // stop once within this many points of the target
	// MarginThreshold is how far short (points) the final estimate may be
	// before the safety margin is applied.
	MarginThreshold float64
	// MarginFactor scales the remaining gap (as a fraction) into a relative markup.
	MarginFactor float64
}

// DefaultCorpusOptions returns the required-corpus search configuration.
func DefaultCorpusOptions() Options {
	return Options{
		MaxIterations:   15,
		Tolerance:       0.5,
		MarginThreshold: 1,
		MarginFactor:    2,
	}
}

// DefaultLeverOptions returns the single-lever search configuration.
func DefaultLeverOptions() Options {
	return Options{
		MaxIterations:   10,
		Tolerance:       0.5,
		MarginThreshold: 1,
		MarginFactor:    3,
	}
}

// CorpusResult is the outcome of a required-corpus search. Converged is
// false when the iteration budget ran out; that is not an error.
type CorpusResult struct {
	Corpus        float64 `json:"corpus"`
	SuccessRate   float64 `json:"successRate"`
	Iterations    int     `json:"iterations"`
	Converged     bool    `json:"converged"`
	MarginApplied bool    `json:"marginApplied"`
}

// Levers holds the full single-lever requirements a balanced plan draws from.
type Levers struct {
	Contribution     float64
	DelayYears       int
	ExpenseReduction float64
}

// CalibrationError wraps failures of the underlying simulator.
type CalibrationError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *CalibrationError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *CalibrationError) Unwrap() error {
	return e.Cause
}
