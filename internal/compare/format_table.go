package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.PlanPath != "" {
		sb.WriteString(fmt.Sprintf("Plan: %s\n", compSet.PlanPath))
	}
	sb.WriteString(fmt.Sprintf("Target Success Rate: %.0f%%\n", compSet.Target))
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Retire Age",
		numWidth, "Contribution",
		numWidth, "Corpus",
		numWidth, "Success"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s: %s\n", alt.ScenarioName, alt.Description))
			sb.WriteString(fmt.Sprintf("  Success Rate:     %+.1f points\n", alt.RateDiffFromBase))
			if !alt.CorpusDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Corpus:           %s$%s (%s%%)\n",
					tf.deltaSymbol(alt.CorpusDiffFromBase),
					tf.formatDecimal(alt.CorpusDiffFromBase.Abs()),
					alt.CorpusPctFromBase.StringFixed(1)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}
	success := fmt.Sprintf("%.1f%%", result.SuccessRate)
	if result.MeetsTarget {
		success += " ✓"
	}

	return fmt.Sprintf("%-*s %*d %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.RetirementAge,
		numWidth, "$"+tf.formatDecimal(result.AnnualContribution),
		numWidth, "$"+tf.formatDecimal(result.ProjectedCorpus),
		numWidth, success)
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))
	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(fmt.Sprintf("%s: %+.1f pts", alt.ScenarioName, alt.RateDiffFromBase))
	}
	return sb.String()
}

// Format renders a comparison in the named format: table, compact, csv or json.
func Format(compSet *ComparisonSet, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "table", "console":
		return (&TableFormatter{}).Format(compSet), nil
	case "compact":
		return (&TableFormatter{}).FormatCompact(compSet) + "\n", nil
	case "csv":
		return (&CSVFormatter{}).Format(compSet)
	case "json":
		return (&JSONFormatter{Pretty: true}).Format(compSet)
	default:
		return "", fmt.Errorf("unsupported comparison format: %s", format)
	}
}
