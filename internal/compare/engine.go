// Package compare runs a plan against a set of what-if templates and ranks
// the alternatives against the unchanged plan.
package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/planner"
	"github.com/rgehrsitz/corpusplan/internal/transform"
)

// BaseScenarioName labels the unchanged plan when no name is given.
const BaseScenarioName = "base"

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	Planner           *planner.Planner
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(pl *planner.Planner) *CompareEngine {
	return &CompareEngine{
		Planner:           pl,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string                        // Label of the unchanged plan
	Templates        []string                      // Built-in templates to apply
	Custom           []transform.ScenarioTransform // Optional extra scenario built from transform specs
	PlanPath         string                        // Shown in the table header
}

// Compare evaluates the plan and one alternative per template. Templates are
// scaled to the plan's annual expense.
func (ce *CompareEngine) Compare(ctx context.Context, params domain.PlanParameters, options CompareOptions) (*ComparisonSet, error) {
	if params.Mode != domain.ModeAdvanced {
		return nil, fmt.Errorf("%w: comparison needs an age-based plan", domain.ErrInvalidInput)
	}
	if len(options.Templates) == 0 && len(options.Custom) == 0 {
		return nil, fmt.Errorf("%w: at least one template or transform is required", domain.ErrInvalidInput)
	}

	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = BaseScenarioName
	}
	registry := transform.CreateBuiltInTemplates(params.AnnualExpense)

	type candidate struct {
		name, description string
		transforms        []transform.ScenarioTransform
	}
	candidates := make([]candidate, 0, len(options.Templates)+1)
	for _, name := range options.Templates {
		template, ok := registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found", name)
		}
		candidates = append(candidates, candidate{template.Name, template.Description, template.Transforms})
	}
	if len(options.Custom) > 0 {
		candidates = append(candidates, candidate{"custom", "Transforms given on the command line", options.Custom})
	}

	var baseResult *ComparisonResult
	alternatives := make([]ComparisonResult, 0, len(candidates))
	for _, c := range candidates {
		result, err := ce.Planner.WhatIf(ctx, params, c.transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", c.name, err)
		}
		if baseResult == nil {
			base := ce.MetricsCalculator.BaseMetrics(baseName, result)
			base.Description = "Plan as written"
			baseResult = &base
		}

		altResult := ce.MetricsCalculator.AdjustedMetrics(c.name, result)
		altResult.Description = c.description
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, *baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		Target:             params.TargetOrDefault(),
		BaseResult:         baseResult,
		AlternativeResults: alternatives,
		PlanPath:           options.PlanPath,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
