package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Age",
		"Annual Contribution",
		"Annual Expense",
		"Projected Corpus",
		"Success Rate",
		"Meets Target",
		"Corpus Diff from Base",
		"Corpus % Change",
		"Rate Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}
	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.RetirementAge),
		result.AnnualContribution.StringFixed(2),
		result.AnnualExpense.StringFixed(2),
		result.ProjectedCorpus.StringFixed(2),
		strconv.FormatFloat(result.SuccessRate, 'f', 2, 64),
		strconv.FormatBool(result.MeetsTarget),
		result.CorpusDiffFromBase.StringFixed(2),
		result.CorpusPctFromBase.StringFixed(2),
		strconv.FormatFloat(result.RateDiffFromBase, 'f', 2, 64),
	}
}
