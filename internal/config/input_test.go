package config

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

func testdataPath(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func TestLoadFromFile_Basic(t *testing.T) {
	params, err := NewInputParser().LoadFromFile(testdataPath("basic_plan.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.ModeBasic, params.Mode)
	assert.Equal(t, 2000, params.Trials)
	assert.Equal(t, 60000.0, params.AnnualExpense)
	assert.Equal(t, 30, params.RetirementPeriod)
	assert.Equal(t, 85.0, params.TargetSuccessRate)
	assert.InDelta(t, 0.07, params.Assumptions.ExpectedReturn, 1e-12)
	assert.True(t, params.Assumptions.AdjustForInflation)
	assert.Zero(t, params.CurrentAge)
}

func TestLoadFromFile_Advanced(t *testing.T) {
	params, err := NewInputParser().LoadFromFile(testdataPath("advanced_plan.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.ModeAdvanced, params.Mode)
	assert.Equal(t, 40, params.CurrentAge)
	assert.Equal(t, 65, params.RetirementAge)
	assert.Equal(t, 90, params.LifeExpectancy)
	assert.Equal(t, 500000.0, params.CurrentCorpus)
	assert.Equal(t, 30000.0, params.AnnualContribution)
	assert.Equal(t, 20000.0, params.AdditionalRetirementIncome)
}

func TestParse_DefaultsApplied(t *testing.T) {
	params, err := NewInputParser().Parse([]byte("mode: advanced\nannual_expense: 50000\ncurrent_age: 50\nretirement_age: 62\nlife_expectancy: 90\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTrials, params.Trials)
	assert.Equal(t, domain.DefaultTargetSuccessRate, params.TargetSuccessRate)
	assert.InDelta(t, 0.07, params.Assumptions.ExpectedReturn, 1e-12)
	assert.InDelta(t, 0.10, params.Assumptions.StandardDeviation, 1e-12)
	assert.InDelta(t, 0.03, params.Assumptions.InflationRate, 1e-12)
	assert.True(t, params.Assumptions.AdjustForInflation)
}

func TestLoadFromFile_Trials1000(t *testing.T) {
	params, err := NewInputParser().Parse([]byte("mode: advanced\ntrials: 1000\nannual_expense: 50000\ncurrent_age: 50\nretirement_age: 62\nlife_expectancy: 90\n"))
	require.NoError(t, err)
	assert.Equal(t, 1000, params.Trials)
}

func TestLoadFromFile_InvalidListsEveryField(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(testdataPath("invalid_plan.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)

	for _, want := range []string{
		"trials must be between 1000 and 10000",
		"annual_expense must be positive",
		"expected_return must be between -0.02 and 0.15",
		"life_expectancy must be between 18 and 100",
		"retirement_age must be greater than current_age",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(testdataPath("does_not_exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		errPart string
	}{
		{"malformed", "mode: [basic", "failed to parse YAML"},
		{"unknown mode", "mode: fancy\nannual_expense: 1000", "unknown mode"},
		{"basic period out of range", "mode: basic\nannual_expense: 1000\nretirement_period: 60", "retirement_period must be between 5 and 50"},
		{"target out of range", "mode: basic\nannual_expense: 1000\ntarget_success_rate: 120", "target_success_rate"},
		{"negative corpus", "mode: advanced\nannual_expense: 1000\ncurrent_age: 40\nretirement_age: 65\nlife_expectancy: 90\ncurrent_corpus: -5", "current_corpus cannot be negative"},
		{"stdev out of range", "mode: basic\nannual_expense: 1000\nassumptions:\n  standard_deviation: 0.5", "standard_deviation must be between"},
		{"inflation out of range", "mode: basic\nannual_expense: 1000\nassumptions:\n  inflation_rate: 0.2", "inflation_rate must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestApplyDefaults_BasicPeriod(t *testing.T) {
	plan := PlanFile{Mode: "basic", AnnualExpense: decimal.NewFromInt(40000)}
	NewInputParser().ApplyDefaults(&plan)
	assert.Equal(t, DefaultRetirementPeriod, plan.RetirementPeriod)
	assert.Equal(t, DefaultTrials, plan.Trials)

	advanced := PlanFile{Mode: "advanced"}
	NewInputParser().ApplyDefaults(&advanced)
	assert.Zero(t, advanced.RetirementPeriod)
}

func TestFromParametersRoundTrip(t *testing.T) {
	parser := NewInputParser()
	params, err := parser.LoadFromFile(testdataPath("advanced_plan.yaml"))
	require.NoError(t, err)

	data, err := Marshal(FromParameters(params))
	require.NoError(t, err)

	again, err := parser.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, params, again)
}
