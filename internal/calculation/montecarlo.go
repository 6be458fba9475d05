package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// DefaultSeed is used when no seed is configured so runs are reproducible.
const DefaultSeed uint64 = 20240917

const (
	trialsPerChunk          = 64
	defaultProgressInterval = 500
)

// Batch salts keep the random streams of different simulation kinds apart.
// Calls of the same kind share streams, which gives common random numbers
// across calibrator iterations.
const (
	batchHorizon uint64 = iota
	batchAtAge
	batchYearBase
)

// Engine runs Monte Carlo trials over a plan. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	seed             uint64
	workers          int
	progress         ProgressFunc
	progressInterval int
	logger           Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed sets the base seed every trial stream is derived from.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithWorkers bounds the number of goroutines per batch. Results do not
// depend on it.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// WithProgressInterval sets how many completed trials trigger a checkpoint.
func WithProgressInterval(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.progressInterval = n
		}
	}
}

// WithLogger installs a diagnostic logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		seed:             DefaultSeed,
		workers:          runtime.GOMAXPROCS(0),
		progressInterval: defaultProgressInterval,
		logger:           nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Seed returns the configured base seed.
func (e *Engine) Seed() uint64 { return e.seed }

// Workers returns the configured worker bound.
func (e *Engine) Workers() int { return e.workers }

// SimulateSuccessRate returns the percentage (0-100) of trials whose corpus
// never reaches zero over the retirement horizon.
func (e *Engine) SimulateSuccessRate(ctx context.Context, startingCorpus float64, p domain.PlanParameters) (float64, error) {
	res, err := e.SimulateTerminalValues(ctx, startingCorpus, p)
	if err != nil {
		return 0, err
	}
	return res.SuccessRate, nil
}

// SimulateTerminalValues returns the terminal corpus of every trial over the
// retirement horizon; depleted trials end at 0.
func (e *Engine) SimulateTerminalValues(ctx context.Context, startingCorpus float64, p domain.PlanParameters) (domain.SimulationResult, error) {
	if err := p.Validate(); err != nil {
		return domain.SimulationResult{}, err
	}
	sim := PathSimulator{Sampler: NewReturnSampler(p.Assumptions.ExpectedReturn, p.Assumptions.StandardDeviation)}
	sched := DecumulationSchedule(p)

	values := make([]float64, p.Trials)
	err := e.runTrials(ctx, "retirement horizon", p.Trials, batchHorizon, func(trial int, rng *rand.Rand) {
		values[trial], _ = sim.Run(rng, startingCorpus, sched)
	})
	if err != nil {
		return domain.SimulationResult{}, err
	}

	rate := 100 - DepletionRate(values)
	e.logger.Debugf("simulated %d trials over %d months from %.0f: success %.1f%%",
		p.Trials, sched.Months(), startingCorpus, rate)
	return domain.SimulationResult{SuccessRate: rate, TerminalValues: values}, nil
}

// ProjectDeterministicCorpus compounds the current corpus and start-of-year
// contributions at the expected return up to retirement. No randomness.
func (e *Engine) ProjectDeterministicCorpus(p domain.PlanParameters) float64 {
	return ProjectDeterministicCorpus(p)
}

// ProjectDeterministicCorpus is the closed form behind Engine.ProjectDeterministicCorpus.
// A contribution made k years before retirement grows for k years.
func ProjectDeterministicCorpus(p domain.PlanParameters) float64 {
	years := p.YearsToRetirement()
	if years <= 0 {
		return p.CurrentCorpus
	}
	growth := 1 + p.Assumptions.ExpectedReturn
	total := p.CurrentCorpus * math.Pow(growth, float64(years))
	for k := 1; k <= years; k++ {
		total += p.AnnualContribution * math.Pow(growth, float64(k))
	}
	return total
}

// SimulateCorpusAtAge simulates every trial from the current age up to
// targetAge and returns the corpus values at that age.
func (e *Engine) SimulateCorpusAtAge(ctx context.Context, startingCorpus float64, p domain.PlanParameters, targetAge int, upfront bool) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if targetAge < p.CurrentAge {
		return nil, fmt.Errorf("%w: target age %d is before current age %d", domain.ErrInvalidInput, targetAge, p.CurrentAge)
	}
	sim := PathSimulator{Sampler: NewReturnSampler(p.Assumptions.ExpectedReturn, p.Assumptions.StandardDeviation)}
	sched := AgeSchedule(p, targetAge, upfront)

	values := make([]float64, p.Trials)
	err := e.runTrials(ctx, fmt.Sprintf("corpus at age %d", targetAge), p.Trials, batchAtAge, func(trial int, rng *rand.Rand) {
		values[trial], _ = sim.Run(rng, startingCorpus, sched)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// SimulateYear runs one year per trial starting from starts[i]: the
// contribution is deposited first, twelve monthly returns are applied and
// the withdrawal is taken at the end. Values are floored at zero. The batch
// salt separates the streams of different years.
func (e *Engine) SimulateYear(ctx context.Context, starts []float64, contribution, withdrawal float64, p domain.PlanParameters, batch uint64) ([]float64, error) {
	sim := PathSimulator{Sampler: NewReturnSampler(p.Assumptions.ExpectedReturn, p.Assumptions.StandardDeviation)}
	sched := YearSchedule(contribution, withdrawal)

	values := make([]float64, len(starts))
	err := e.runTrials(ctx, "yearly slice", len(starts), batchYearBase+batch, func(trial int, rng *rand.Rand) {
		values[trial], _ = sim.Run(rng, starts[trial], sched)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// runTrials fans trials out over workers in fixed-size chunks. Each trial
// gets its own reseeded stream; fn must only write to slot trial.
func (e *Engine) runTrials(ctx context.Context, stage string, trials int, batch uint64, fn func(trial int, rng *rand.Rand)) error {
	if trials <= 0 {
		return nil
	}
	chunks := (trials + trialsPerChunk - 1) / trialsPerChunk
	workers := min(e.workers, chunks)

	tracker := newProgressTracker(e.progress, stage, trials, e.progressInterval)
	tracker.start()

	var next atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			stream := newTrialStream()
			for {
				c := int(next.Add(1)) - 1
				if c >= chunks {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				lo := c * trialsPerChunk
				hi := min(lo+trialsPerChunk, trials)
				for i := lo; i < hi; i++ {
					fn(i, stream.For(e.seed, batch, i))
				}
				tracker.add(hi - lo)
			}
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warnf("%s: stopped after cancellation: %v", stage, err)
		return err
	}
	tracker.finish()
	return nil
}
