package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalancedAdjustment_Describe(t *testing.T) {
	tests := []struct {
		name string
		adj  BalancedAdjustment
		want string
	}{
		{
			name: "all levers",
			adj:  BalancedAdjustment{AdditionalContribution: 12345, DelayYears: 2, ExpenseReduction: 4000},
			want: "Increase contributions by 12,345/year and delay retirement by 2 years and reduce expenses by 4,000/year",
		},
		{
			name: "delay only",
			adj:  BalancedAdjustment{DelayYears: 1},
			want: "Delay retirement by 1 year",
		},
		{
			name: "nothing",
			adj:  BalancedAdjustment{},
			want: "No changes required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.adj.Describe(nil))
		})
	}
}

func TestBalancedAdjustment_DescribeWithFormatter(t *testing.T) {
	adj := BalancedAdjustment{ExpenseReduction: 1500}
	got := adj.Describe(func(v float64) string { return "$X" })
	assert.Equal(t, "Reduce expenses by $X/year", got)
}

func TestCorpusTrack_Lookups(t *testing.T) {
	track := CorpusTrack{Snapshots: []YearlySnapshot{
		{Age: 64, DepletionRisk: 0, EndCorpus: 1},
		{Age: 65, DepletionRisk: 12, EndCorpus: 2},
		{Age: 66, DepletionRisk: 45, EndCorpus: 3},
	}}

	s, ok := track.SnapshotAt(65)
	assert.True(t, ok)
	assert.Equal(t, 12.0, s.DepletionRisk)

	_, ok = track.SnapshotAt(99)
	assert.False(t, ok)

	age, ok := track.FirstRiskAge(10)
	assert.True(t, ok)
	assert.Equal(t, 65, age)

	_, ok = track.FirstRiskAge(50)
	assert.False(t, ok)

	assert.Equal(t, []float64{1, 2, 3}, track.Medians())
}

func TestPlanReport_Shortfall(t *testing.T) {
	r := PlanReport{Params: PlanParameters{TargetSuccessRate: 85}, RequiredCorpus: 1500000, ProjectedCorpus: 1200000, SuccessRate: 80}
	assert.Equal(t, 300000.0, r.Shortfall())
	assert.False(t, r.MeetsTarget())
}
