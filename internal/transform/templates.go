package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names in alphabetical order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if
// scenarios. Amount based templates scale with the plan's annual expense.
func CreateBuiltInTemplates(annualExpense float64) *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Retirement timing
	registry.Register(Template{
		Name:        "work_1yr",
		Description: "Retire 1 year later",
		Transforms:  []ScenarioTransform{&DelayRetirement{Years: 1}},
	})
	registry.Register(Template{
		Name:        "work_3yr",
		Description: "Retire 3 years later",
		Transforms:  []ScenarioTransform{&DelayRetirement{Years: 3}},
	})

	// Saving and spending
	registry.Register(Template{
		Name:        "save_more",
		Description: "Contribute an extra 10% of annual expenses each year",
		Transforms:  []ScenarioTransform{&AddContribution{Amount: annualExpense * 0.10}},
	})
	registry.Register(Template{
		Name:        "spend_less",
		Description: "Cut annual expenses by 10%",
		Transforms:  []ScenarioTransform{&ReduceExpense{Amount: annualExpense * 0.10}},
	})

	// Market stress
	registry.Register(Template{
		Name:        "market_low_returns",
		Description: "Expected return of 5% with 12% volatility",
		Transforms: []ScenarioTransform{
			&SetExpectedReturn{Rate: 0.05},
			&SetVolatility{StdDev: 0.12},
		},
	})
	registry.Register(Template{
		Name:        "market_high_inflation",
		Description: "Inflation of 5% a year",
		Transforms:  []ScenarioTransform{&SetInflation{Rate: 0.05}},
	})

	// Combination
	registry.Register(Template{
		Name:        "balanced_push",
		Description: "Retire 1 year later, save 5% more and spend 5% less",
		Transforms: []ScenarioTransform{
			&DelayRetirement{Years: 1},
			&AddContribution{Amount: annualExpense * 0.05},
			&ReduceExpense{Amount: annualExpense * 0.05},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base plan
func ApplyTemplate(base domain.PlanParameters, template Template) (domain.PlanParameters, error) {
	if len(template.Transforms) == 0 {
		return base, nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	order := []string{"Retirement Timing", "Saving and Spending", "Market Stress", "Combination Strategies"}
	categories := make(map[string][]Template, len(order))
	for _, name := range registry.List() {
		template := registry.templates[name]
		switch {
		case strings.HasPrefix(name, "work_"):
			categories[order[0]] = append(categories[order[0]], template)
		case strings.HasPrefix(name, "save_"), strings.HasPrefix(name, "spend_"):
			categories[order[1]] = append(categories[order[1]], template)
		case strings.HasPrefix(name, "market_"):
			categories[order[2]] = append(categories[order[2]], template)
		default:
			categories[order[3]] = append(categories[order[3]], template)
		}
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
