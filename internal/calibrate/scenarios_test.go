package calibrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/domain"
)

func TestNewDefaultScenarioCalibrator(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})
	assert.Equal(t, DefaultLeverOptions(), s.Options)
	assert.Equal(t, DefaultMaxDelayYears, s.MaxDelayYears)
}

func TestScenarioCalibrator_SuccessRate(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})
	rate, err := s.SuccessRate(context.Background(), testPlan())
	require.NoError(t, err)
	assert.InDelta(t, 50, rate, 1e-9)
}

func TestScenarioCalibrator_RequiredAdditionalContribution(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})
	p := testPlan()

	adj, err := s.RequiredAdditionalContribution(context.Background(), p, 85)
	require.NoError(t, err)

	want := (requiredRatio(85)*p.AnnualExpense - 1000000) / 25
	assert.Equal(t, domain.LeverContribution, adj.Lever)
	assert.InDelta(t, want, adj.Amount, 300)
	assert.InDelta(t, 85, adj.SuccessRate, 0.5)
	assert.Equal(t, 36000.0, p.AnnualContribution, "caller's plan is untouched")
}

func TestScenarioCalibrator_ContributionWithoutCurrentContribution(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})
	p := testPlan().WithAnnualContribution(0)

	adj, err := s.RequiredAdditionalContribution(context.Background(), p, 85)
	require.NoError(t, err)

	want := (requiredRatio(85)*p.AnnualExpense - p.CurrentCorpus) / 25
	assert.InDelta(t, want, adj.Amount, 600)
}

func TestScenarioCalibrator_RequiredRetirementDelay(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})

	adj, err := s.RequiredRetirementDelay(context.Background(), testPlan(), 85)
	require.NoError(t, err)

	assert.Equal(t, domain.LeverDelay, adj.Lever)
	assert.Equal(t, 4, adj.DelayYears)
	assert.GreaterOrEqual(t, adj.SuccessRate, 85.0)
}

func TestScenarioCalibrator_DelayStopsBeforeLifeExpectancy(t *testing.T) {
	s := NewDefaultScenarioCalibrator(stuckSim{rate: 10})
	p := testPlan()
	p.LifeExpectancy = 69

	adj, err := s.RequiredRetirementDelay(context.Background(), p, 85)
	require.NoError(t, err)
	assert.Equal(t, 3, adj.DelayYears)
}

func TestScenarioCalibrator_RequiredExpenseReduction(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})
	p := testPlan()

	adj, err := s.RequiredExpenseReduction(context.Background(), p, 85)
	require.NoError(t, err)

	want := p.AnnualExpense - 1000000/requiredRatio(85)
	assert.Equal(t, domain.LeverExpense, adj.Lever)
	assert.InDelta(t, want, adj.Amount, 300)
	assert.InDelta(t, 85, adj.SuccessRate, 0.5)
}

func TestScenarioCalibrator_StuckSearches(t *testing.T) {
	s := NewDefaultScenarioCalibrator(stuckSim{rate: 10})
	p := testPlan()
	ctx := context.Background()

	expense, err := s.RequiredExpenseReduction(ctx, p, 85)
	require.NoError(t, err)
	assert.Equal(t, 0.5*p.AnnualExpense, expense.Amount, "expense cut is capped at half the expense")

	contribution, err := s.RequiredAdditionalContribution(ctx, p, 85)
	require.NoError(t, err)
	assert.Greater(t, contribution.Amount, 2*p.AnnualContribution, "the margin may push past the search range")

	delay, err := s.RequiredRetirementDelay(ctx, p, 85)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDelayYears, delay.DelayYears)

	balanced, err := s.Balanced(ctx, p, 85)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDelayYears, balanced.DelayYears)
	assert.Equal(t, contribution.Amount, balanced.AdditionalContribution)
	assert.Equal(t, expense.Amount, balanced.ExpenseReduction)
	assert.Equal(t, 10.0, balanced.SuccessRate)
}

func TestScenarioCalibrator_Balanced(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})
	p := testPlan()

	adj, err := s.Balanced(context.Background(), p, 85)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, adj.SuccessRate, 85.0)
	assert.Equal(t, 2, adj.DelayYears)
	assert.Greater(t, adj.AdditionalContribution, 0.0)
	assert.Greater(t, adj.ExpenseReduction, 0.0)
	assert.Contains(t, adj.Description, "delay retirement by 2 years")
	assert.Contains(t, adj.Description, "Increase contributions by")
	assert.Contains(t, adj.Description, "reduce expenses by")
}

func TestScenarioCalibrator_SuccessRateIncrease(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})

	inc, err := s.SuccessRateIncrease(context.Background(), testPlan(), 4, 0, 0)
	require.NoError(t, err)
	assert.Greater(t, inc, 30.0)

	none, err := s.SuccessRateIncrease(context.Background(), testPlan(), 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, none)
}

func TestScenarioCalibrator_GenerateScenarios(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})

	set, err := s.GenerateScenarios(context.Background(), testPlan())
	require.NoError(t, err)

	assert.False(t, set.MeetsTarget)
	assert.Equal(t, 85.0, set.Target)
	assert.InDelta(t, 50, set.CurrentSuccessRate, 1e-9)
	require.NotNil(t, set.Contribution)
	require.NotNil(t, set.Delay)
	require.NotNil(t, set.Expense)
	require.NotNil(t, set.Balanced)
	assert.Equal(t, 4, set.Delay.DelayYears)
	assert.LessOrEqual(t, set.Balanced.DelayYears, set.Delay.DelayYears)
	assert.LessOrEqual(t, set.Balanced.AdditionalContribution, set.Contribution.Amount)
	assert.LessOrEqual(t, set.Balanced.ExpenseReduction, set.Expense.Amount)
}

func TestScenarioCalibrator_GenerateScenarios_AlreadyMeetsTarget(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})

	set, err := s.GenerateScenarios(context.Background(), testPlan().WithAnnualContribution(60000))
	require.NoError(t, err)

	assert.True(t, set.MeetsTarget)
	assert.Nil(t, set.Contribution)
	assert.Nil(t, set.Delay)
	assert.Nil(t, set.Expense)
	assert.Nil(t, set.Balanced)
}

func TestScenarioCalibrator_RequiresAdvancedMode(t *testing.T) {
	s := NewDefaultScenarioCalibrator(&sigmoidSim{})
	p := testPlan()
	p.Mode = domain.ModeBasic
	p.RetirementPeriod = 30

	_, err := s.GenerateScenarios(context.Background(), p)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScenarioCalibrator_WithEngine(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the full Monte Carlo engine")
	}
	p := testPlan()
	p.AnnualExpense = 80000
	p.AnnualContribution = 30000
	p.CurrentCorpus = 500000
	p.AdditionalRetirementIncome = 20000

	s := NewDefaultScenarioCalibrator(calculation.NewEngine())
	set, err := s.GenerateScenarios(context.Background(), p)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, set.CurrentSuccessRate, 0.0)
	assert.LessOrEqual(t, set.CurrentSuccessRate, 100.0)
	if !set.MeetsTarget {
		require.NotNil(t, set.Balanced)
		assert.NotEmpty(t, set.Balanced.Description)
	}
}

func TestFurthestLever(t *testing.T) {
	full := Levers{Contribution: 100, DelayYears: 2, ExpenseReduction: 100}

	lever, ok := furthestLever(domain.BalancedAdjustment{DelayYears: 1, AdditionalContribution: 50, ExpenseReduction: 50}, full)
	require.True(t, ok)
	assert.Equal(t, domain.LeverDelay, lever, "ties go to delay first")

	lever, ok = furthestLever(domain.BalancedAdjustment{DelayYears: 2, AdditionalContribution: 50, ExpenseReduction: 40}, full)
	require.True(t, ok)
	assert.Equal(t, domain.LeverExpense, lever)

	_, ok = furthestLever(domain.BalancedAdjustment{DelayYears: 2, AdditionalContribution: 100, ExpenseReduction: 100}, full)
	assert.False(t, ok)

	_, ok = furthestLever(domain.BalancedAdjustment{}, Levers{})
	assert.False(t, ok)
}

func TestScenarioCalibrator_RetirementDelayWithoutCandidates(t *testing.T) {
	s := NewDefaultScenarioCalibrator(stuckSim{rate: 100})
	p := testPlan().WithRetirementAge(89)

	adj, err := s.RequiredRetirementDelay(context.Background(), p, 85)
	require.NoError(t, err)

	assert.Equal(t, domain.LeverDelay, adj.Lever)
	assert.Zero(t, adj.DelayYears)
	assert.Equal(t, 100.0, adj.SuccessRate)
}
