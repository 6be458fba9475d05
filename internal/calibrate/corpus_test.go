package calibrate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/domain"
)

func TestNewDefaultCorpusCalibrator(t *testing.T) {
	sim := &sigmoidSim{}
	c := NewDefaultCorpusCalibrator(sim)

	require.NotNil(t, c)
	assert.Equal(t, DefaultCorpusOptions(), c.Options)
	assert.Equal(t, 15, c.Options.MaxIterations)
}

func TestCorpusCalibrator_Converges(t *testing.T) {
	sim := &sigmoidSim{}
	c := NewDefaultCorpusCalibrator(sim)
	p := testPlan()

	res, err := c.RequiredCorpus(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.False(t, res.MarginApplied)
	assert.InDelta(t, 85, res.SuccessRate, 0.5)
	assert.InDelta(t, requiredRatio(85)*p.AnnualExpense, res.Corpus, 0.1*p.AnnualExpense)
	assert.LessOrEqual(t, res.Iterations, 15)
	assert.Equal(t, int64(res.Iterations+1), sim.calls.Load())
}

func TestCorpusCalibrator_DefaultTarget(t *testing.T) {
	p := testPlan().WithTargetSuccessRate(0)
	res, err := NewDefaultCorpusCalibrator(&sigmoidSim{}).RequiredCorpus(context.Background(), p)
	require.NoError(t, err)
	assert.InDelta(t, domain.DefaultTargetSuccessRate, res.SuccessRate, 0.5)
}

func TestCorpusCalibrator_HigherTargetNeedsMore(t *testing.T) {
	c := NewDefaultCorpusCalibrator(&sigmoidSim{})
	low, err := c.RequiredCorpus(context.Background(), testPlan().WithTargetSuccessRate(75))
	require.NoError(t, err)
	high, err := c.RequiredCorpus(context.Background(), testPlan().WithTargetSuccessRate(95))
	require.NoError(t, err)
	assert.Greater(t, high.Corpus, low.Corpus)
}

func TestCorpusCalibrator_NonConvergenceIsNotAnError(t *testing.T) {
	c := NewDefaultCorpusCalibrator(stuckSim{rate: 70})
	p := testPlan()

	res, err := c.RequiredCorpus(context.Background(), p)
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.True(t, res.MarginApplied)
	assert.Equal(t, 15, res.Iterations)
	// The search climbs towards the 3x bracket edge, then the margin adds
	// (0.85-0.70)*2 = 30% on top.
	guess := p.AnnualExpense / 0.04
	assert.Greater(t, res.Corpus, 3*guess)
	assert.Less(t, res.Corpus, 3*guess*1.3+1)
}

func TestCorpusCalibrator_ZeroExpense(t *testing.T) {
	res, err := NewDefaultCorpusCalibrator(&sigmoidSim{}).RequiredCorpus(context.Background(), testPlan().WithAnnualExpense(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Corpus)
	assert.True(t, res.Converged)
}

func TestCorpusCalibrator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultCorpusCalibrator(&sigmoidSim{}).RequiredCorpus(ctx, testPlan())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCorpusCalibrator_SimulationErrorIsWrapped(t *testing.T) {
	engine := calculation.NewEngine()
	_, err := NewDefaultCorpusCalibrator(engine).RequiredCorpus(context.Background(), testPlan().WithTrials(0))

	var calErr *CalibrationError
	require.ErrorAs(t, err, &calErr)
	assert.Equal(t, "required_corpus", calErr.Operation)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestCorpusCalibrator_BasicScenarioWithEngine(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the full Monte Carlo engine")
	}
	p := domain.PlanParameters{
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
	engine := calculation.NewEngine()

	res, err := NewDefaultCorpusCalibrator(engine).RequiredCorpus(context.Background(), p)
	require.NoError(t, err)

	assert.Greater(t, res.Corpus, 1300000.0)
	assert.Less(t, res.Corpus, 1800000.0)

	rate, err := engine.SimulateSuccessRate(context.Background(), res.Corpus, p)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rate, 85-1.5)
	assert.InDelta(t, res.SuccessRate, rate, 1e-9)
}

func TestCalibrationError(t *testing.T) {
	cause := errors.New("boom")
	err := &CalibrationError{Operation: "op", Message: "failed", Cause: cause}
	assert.Equal(t, "op: failed: boom", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))

	assert.Equal(t, "op: failed", (&CalibrationError{Operation: "op", Message: "failed"}).Error())
}
