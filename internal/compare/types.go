package compare

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/planner"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string   `json:"scenarioName"`
	Description  string   `json:"description"`
	Applied      []string `json:"applied,omitempty"`

	// Key Metrics
	ProjectedCorpus decimal.Decimal `json:"projectedCorpus"`
	SuccessRate     float64         `json:"successRate"`
	MeetsTarget     bool            `json:"meetsTarget"`

	// Comparison to Base
	CorpusDiffFromBase decimal.Decimal `json:"corpusDiffFromBase"`
	CorpusPctFromBase  decimal.Decimal `json:"corpusPctFromBase"`
	RateDiffFromBase   float64         `json:"rateDiffFromBase"`

	// Plan specifics (extracted from the adjusted plan for display)
	RetirementAge      int             `json:"retirementAge"`
	AnnualContribution decimal.Decimal `json:"annualContribution"`
	AnnualExpense      decimal.Decimal `json:"annualExpense"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	Target             float64            `json:"target"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	PlanPath           string             `json:"planPath,omitempty"`
}

// MetricsCalculator extracts key metrics from what-if results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// BaseMetrics describes the unchanged plan of a what-if result.
func (mc *MetricsCalculator) BaseMetrics(name string, r *planner.WhatIfResult) ComparisonResult {
	return mc.metrics(name, r.Base, r.BaseCorpus, r.BaseRate)
}

// AdjustedMetrics describes the transformed plan of a what-if result.
func (mc *MetricsCalculator) AdjustedMetrics(name string, r *planner.WhatIfResult) ComparisonResult {
	result := mc.metrics(name, r.Adjusted, r.AdjustedCorpus, r.AdjustedRate)
	result.Applied = r.Applied
	return result
}

func (mc *MetricsCalculator) metrics(name string, p domain.PlanParameters, corpus, rate float64) ComparisonResult {
	return ComparisonResult{
		ScenarioName:       name,
		ProjectedCorpus:    decimal.NewFromFloat(corpus).Round(2),
		SuccessRate:        rate,
		MeetsTarget:        rate >= p.TargetOrDefault(),
		RetirementAge:      p.RetirementAge,
		AnnualContribution: decimal.NewFromFloat(p.AnnualContribution).Round(2),
		AnnualExpense:      decimal.NewFromFloat(p.AnnualExpense).Round(2),
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.CorpusDiffFromBase = scenario.ProjectedCorpus.Sub(base.ProjectedCorpus)
	if !base.ProjectedCorpus.IsZero() {
		scenario.CorpusPctFromBase = scenario.CorpusDiffFromBase.
			Div(base.ProjectedCorpus).
			Mul(decimal.NewFromInt(100))
	}
	scenario.RateDiffFromBase = scenario.SuccessRate - base.SuccessRate
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Largest success rate gain
	bestRate := -1
	for i, alt := range compSet.AlternativeResults {
		if alt.RateDiffFromBase > 0 && (bestRate < 0 || alt.RateDiffFromBase > compSet.AlternativeResults[bestRate].RateDiffFromBase) {
			bestRate = i
		}
	}
	if bestRate >= 0 {
		alt := compSet.AlternativeResults[bestRate]
		recommendations = append(recommendations,
			fmt.Sprintf("Best Success Rate: %s raises the success rate by %.1f points to %.1f%%",
				alt.ScenarioName, alt.RateDiffFromBase, alt.SuccessRate))
	}

	// Largest corpus at retirement
	bestCorpus := -1
	for i, alt := range compSet.AlternativeResults {
		if alt.CorpusDiffFromBase.IsPositive() && (bestCorpus < 0 || alt.CorpusDiffFromBase.GreaterThan(compSet.AlternativeResults[bestCorpus].CorpusDiffFromBase)) {
			bestCorpus = i
		}
	}
	if bestCorpus >= 0 {
		alt := compSet.AlternativeResults[bestCorpus]
		recommendations = append(recommendations,
			"Largest Corpus: "+alt.ScenarioName+" adds $"+alt.CorpusDiffFromBase.StringFixed(0)+
				" to the corpus at retirement")
	}

	// Scenarios that close the gap to the target
	if !compSet.BaseResult.MeetsTarget {
		for _, alt := range compSet.AlternativeResults {
			if alt.MeetsTarget {
				recommendations = append(recommendations,
					fmt.Sprintf("Meets Target: %s reaches the %.0f%% target", alt.ScenarioName, compSet.Target))
			}
		}
	}

	// Warn about stress scenarios
	worst := -1
	for i, alt := range compSet.AlternativeResults {
		if alt.RateDiffFromBase < 0 && (worst < 0 || alt.RateDiffFromBase < compSet.AlternativeResults[worst].RateDiffFromBase) {
			worst = i
		}
	}
	if worst >= 0 {
		alt := compSet.AlternativeResults[worst]
		recommendations = append(recommendations,
			fmt.Sprintf("Largest Risk: %s lowers the success rate by %.1f points", alt.ScenarioName, math.Abs(alt.RateDiffFromBase)))
	}

	return recommendations
}
