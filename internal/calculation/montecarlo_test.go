package calculation

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

func basicPlan() domain.PlanParameters {
	return domain.PlanParameters{
		Mode: domain.ModeBasic,
		Assumptions: domain.Assumptions{
			ExpectedReturn:     0.07,
			StandardDeviation:  0.10,
			InflationRate:      0.03,
			AdjustForInflation: true,
		},
		AnnualExpense:     60000,
		RetirementPeriod:  30,
		TargetSuccessRate: 85,
		Trials:            1000,
	}
}

func advancedPlan() domain.PlanParameters {
	return domain.PlanParameters{
		Mode: domain.ModeAdvanced,
		Assumptions: domain.Assumptions{
			ExpectedReturn:     0.07,
			StandardDeviation:  0.10,
			InflationRate:      0.03,
			AdjustForInflation: true,
		},
		AnnualExpense:              80000,
		CurrentAge:                 40,
		RetirementAge:              65,
		LifeExpectancy:             90,
		CurrentCorpus:              500000,
		AnnualContribution:         30000,
		AdditionalRetirementIncome: 20000,
		TargetSuccessRate:          85,
		Trials:                     1000,
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, DefaultSeed, e.Seed())
	assert.Positive(t, e.Workers())

	e = NewEngine(WithSeed(7), WithWorkers(3), WithWorkers(0))
	assert.Equal(t, uint64(7), e.Seed())
	assert.Equal(t, 3, e.Workers(), "non-positive worker counts are ignored")
}

func TestEngine_SimulateSuccessRate_Range(t *testing.T) {
	e := NewEngine()
	rate, err := e.SimulateSuccessRate(context.Background(), 1500000, basicPlan())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 100.0)
	assert.Greater(t, rate, 50.0)
}

func TestEngine_ResultsIndependentOfWorkers(t *testing.T) {
	ctx := context.Background()
	p := basicPlan()

	single, err := NewEngine(WithSeed(99), WithWorkers(1)).SimulateTerminalValues(ctx, 1200000, p)
	require.NoError(t, err)
	many, err := NewEngine(WithSeed(99), WithWorkers(8)).SimulateTerminalValues(ctx, 1200000, p)
	require.NoError(t, err)

	assert.Equal(t, single.TerminalValues, many.TerminalValues)
	assert.Equal(t, single.SuccessRate, many.SuccessRate)
}

func TestEngine_SeedChangesResults(t *testing.T) {
	ctx := context.Background()
	p := basicPlan()

	a, err := NewEngine(WithSeed(1)).SimulateTerminalValues(ctx, 1200000, p)
	require.NoError(t, err)
	b, err := NewEngine(WithSeed(2)).SimulateTerminalValues(ctx, 1200000, p)
	require.NoError(t, err)

	assert.NotEqual(t, a.TerminalValues, b.TerminalValues)
}

func TestEngine_SuccessRateMonotoneInExpense(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(WithSeed(11))
	p := basicPlan()

	prev := math.Inf(1)
	for _, expense := range []float64{40000, 50000, 60000, 70000, 80000} {
		rate, err := e.SimulateSuccessRate(ctx, 1200000, p.WithAnnualExpense(expense))
		require.NoError(t, err)
		assert.LessOrEqual(t, rate, prev, "expense %.0f", expense)
		prev = rate
	}
}

func TestEngine_SuccessRateMonotoneInCorpus(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(WithSeed(11))
	p := basicPlan()

	prev := -1.0
	for _, corpus := range []float64{600000, 900000, 1200000, 1500000, 1800000} {
		rate, err := e.SimulateSuccessRate(ctx, corpus, p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rate, prev, "corpus %.0f", corpus)
		prev = rate
	}
}

func TestEngine_SimulateTerminalValues_DepletedAreZero(t *testing.T) {
	e := NewEngine()
	res, err := e.SimulateTerminalValues(context.Background(), 50000, basicPlan())
	require.NoError(t, err)

	require.Len(t, res.TerminalValues, 1000)
	assert.Equal(t, 0.0, res.SuccessRate)
	for _, v := range res.TerminalValues {
		assert.Equal(t, 0.0, v)
	}
}

func TestEngine_SimulateTerminalValues_ConsistentWithRate(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	p := basicPlan()

	res, err := e.SimulateTerminalValues(ctx, 1400000, p)
	require.NoError(t, err)
	rate, err := e.SimulateSuccessRate(ctx, 1400000, p)
	require.NoError(t, err)

	assert.Equal(t, rate, 100-DepletionRate(res.TerminalValues))
}

func TestEngine_InvalidPlan(t *testing.T) {
	_, err := NewEngine().SimulateSuccessRate(context.Background(), 1000, basicPlan().WithTrials(0))
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestEngine_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().SimulateSuccessRate(ctx, 1000000, basicPlan())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProjectDeterministicCorpus(t *testing.T) {
	p := advancedPlan()

	got := ProjectDeterministicCorpus(p)
	assert.Greater(t, got, 2*p.CurrentCorpus)

	want := 500000 * math.Pow(1.07, 25)
	for k := 1; k <= 25; k++ {
		want += 30000 * math.Pow(1.07, float64(k))
	}
	assert.InEpsilon(t, want, got, 1e-12)
	assert.Equal(t, got, NewEngine().ProjectDeterministicCorpus(p))
}

func TestProjectDeterministicCorpus_Monotone(t *testing.T) {
	p := advancedPlan()

	prev := 0.0
	for _, retire := range []int{45, 50, 55, 60, 65, 70} {
		v := ProjectDeterministicCorpus(p.WithRetirementAge(retire))
		assert.Greater(t, v, prev, "retirement age %d", retire)
		prev = v
	}

	prev = 0.0
	for _, contrib := range []float64{0, 10000, 20000, 40000} {
		v := ProjectDeterministicCorpus(p.WithAnnualContribution(contrib))
		assert.Greater(t, v, prev, "contribution %.0f", contrib)
		prev = v
	}
}

func TestProjectDeterministicCorpus_ZeroReturn(t *testing.T) {
	p := advancedPlan()
	p.Assumptions.ExpectedReturn = 0
	assert.InDelta(t, 500000+25*30000, ProjectDeterministicCorpus(p), 1e-6)
}

func TestEngine_SimulateCorpusAtAge(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	p := advancedPlan()

	_, err := e.SimulateCorpusAtAge(ctx, 500000, p, 39, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	same, err := e.SimulateCorpusAtAge(ctx, 500000, p, 40, true)
	require.NoError(t, err)
	require.Len(t, same, p.Trials)
	for _, v := range same {
		assert.Equal(t, 500000.0, v)
	}

	atRetirement, err := e.SimulateCorpusAtAge(ctx, 500000, p, 65, true)
	require.NoError(t, err)
	assert.Greater(t, Median(atRetirement), 2*500000.0)
}

func TestEngine_SimulateCorpusAtAge_Deterministic(t *testing.T) {
	ctx := context.Background()
	e := NewEngine()
	p := advancedPlan()
	p.Assumptions.StandardDeviation = 0
	p.AnnualContribution = 12000

	upfront, err := e.SimulateCorpusAtAge(ctx, 100000, p, 41, true)
	require.NoError(t, err)
	assert.InEpsilon(t, 112000*1.07, upfront[0], 1e-9)

	monthly, err := e.SimulateCorpusAtAge(ctx, 100000, p, 41, false)
	require.NoError(t, err)
	m := math.Pow(1.07, 1.0/12) - 1
	want := 100000.0
	for i := 0; i < 12; i++ {
		want = want*(1+m) + 1000
	}
	assert.InEpsilon(t, want, monthly[0], 1e-9)
}

func TestEngine_ProgressDoesNotChangeResults(t *testing.T) {
	ctx := context.Background()
	p := basicPlan()

	var mu sync.Mutex
	var events []Progress
	withProgress := NewEngine(WithProgressInterval(100), WithProgress(func(pr Progress) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, pr)
	}))

	quiet, err := NewEngine().SimulateTerminalValues(ctx, 1300000, p)
	require.NoError(t, err)
	loud, err := withProgress.SimulateTerminalValues(ctx, 1300000, p)
	require.NoError(t, err)

	assert.Equal(t, quiet.TerminalValues, loud.TerminalValues)

	require.GreaterOrEqual(t, len(events), 3)
	assert.Equal(t, 0, events[0].Completed)
	last := events[len(events)-1]
	assert.True(t, last.Done())
	assert.Equal(t, p.Trials, last.Total)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Completed, events[i-1].Completed)
	}
}

func TestProgress_Fraction(t *testing.T) {
	assert.Equal(t, 0.5, Progress{Completed: 50, Total: 100}.Fraction())
	assert.Equal(t, 1.0, Progress{}.Fraction())
}

func TestEngine_SimulateYear(t *testing.T) {
	p := advancedPlan()
	p.Assumptions.StandardDeviation = 0
	e := NewEngine()

	got, err := e.SimulateYear(context.Background(), []float64{100000, 0, 5000}, 10000, 20000, p, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InEpsilon(t, 110000*1.07-20000, got[0], 1e-9)
	assert.Equal(t, 0.0, got[1])
	assert.Equal(t, 0.0, got[2])
}
