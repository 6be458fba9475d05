package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

const headerLine = "====================================================="

// ConsoleFormatter renders the plain-text report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}
	var buf bytes.Buffer
	if report.Params.Mode == domain.ModeBasic {
		writeBasic(&buf, report)
		return buf.Bytes(), nil
	}

	writeAdvanced(&buf, report)
	if report.Scenarios != nil {
		writeScenarios(&buf, report.Params, report.Scenarios)
	}
	writeInflationImpact(&buf, report)
	if report.Track != nil {
		buf.WriteString("\n")
		writeTracking(&buf, report.Params, report.Track)
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, title string) {
	pad := (len(headerLine) - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(buf, "%s\n%s%s\n%s\n\n", headerLine, strings.Repeat(" ", pad), title, headerLine)
}

func writeAssumptions(buf *bytes.Buffer, a domain.Assumptions) {
	fmt.Fprintf(buf, "- Expected Return: %s\n", FormatRate(a.ExpectedReturn))
	fmt.Fprintf(buf, "- Standard Deviation: %s\n", FormatRate(a.StandardDeviation))
	fmt.Fprintf(buf, "- Inflation: %s\n", FormatRate(a.InflationRate))
	fmt.Fprintf(buf, "- Adjust for Inflation: %s\n", yesNo(a.AdjustForInflation))
}

func writeBasic(buf *bytes.Buffer, r *domain.PlanReport) {
	p := r.Params
	writeHeader(buf, "RETIREMENT CORPUS CALCULATOR REPORT")

	buf.WriteString("INPUTS:\n")
	fmt.Fprintf(buf, "- Annual Expense: %s\n", FormatMoney(p.AnnualExpense))
	fmt.Fprintf(buf, "- Retirement Period: %d years\n", p.RetirementPeriod)
	writeAssumptions(buf, p.Assumptions)
	fmt.Fprintf(buf, "- Target Success Rate: %s\n", FormatPercentage(p.TargetOrDefault()))
	fmt.Fprintf(buf, "- Simulations: %d\n\n", p.Trials)

	buf.WriteString("OUTPUTS:\n")
	fmt.Fprintf(buf, "- Required Corpus: %s\n", FormatMoney(r.RequiredCorpus))
	if r.RequiredCorpus > 0 {
		fmt.Fprintf(buf, "- Initial Withdrawal Rate: %s\n", FormatPercentage(p.AnnualExpense/r.RequiredCorpus*100))
	}
	fmt.Fprintf(buf, "- Success Probability: %s\n", FormatPercentage(r.SuccessRate))
	fmt.Fprintf(buf, "- Risk Level: %s\n", RiskLevel(r.SuccessRate))
	fmt.Fprintf(buf, "- Ending Balance: P10 %s, P50 %s, P90 %s\n", FormatMoney(r.Terminal.P10), FormatMoney(r.Terminal.P50), FormatMoney(r.Terminal.P90))
	if !r.RequiredCorpusConverged {
		buf.WriteString("- Note: the corpus search did not converge; the estimate includes a safety margin.\n")
	}

	buf.WriteString("\nWHAT THIS MEANS:\n")
	fmt.Fprintf(buf, "Based on your inputs, you would need approximately %s to fund your retirement. ", FormatMoney(r.RequiredCorpus))
	fmt.Fprintf(buf, "This would give you a %s chance of not running out of money ", FormatPercentage(r.SuccessRate))
	fmt.Fprintf(buf, "over your %d-year retirement period.\n", p.RetirementPeriod)

	if r.SuccessRate < insightLowSuccessPercent {
		buf.WriteString("\nNOTE: Your success probability is below 80%. You may want to consider:\n")
		buf.WriteString("- Increasing your retirement corpus\n")
		buf.WriteString("- Reducing your annual expenses\n")
		buf.WriteString("- Adjusting your investment strategy\n")
	}
}

func writeAdvanced(buf *bytes.Buffer, r *domain.PlanReport) {
	p := r.Params
	writeHeader(buf, "PERSONALIZED RETIREMENT PLANNING REPORT")

	buf.WriteString("INPUTS:\n")
	fmt.Fprintf(buf, "- Current Age: %d\n", p.CurrentAge)
	fmt.Fprintf(buf, "- Target Retirement Age: %d\n", p.RetirementAge)
	fmt.Fprintf(buf, "- Life Expectancy: %d\n", p.LifeExpectancy)
	fmt.Fprintf(buf, "- Current Retirement Corpus: %s\n", FormatMoney(p.CurrentCorpus))
	fmt.Fprintf(buf, "- Current Annual Expenses: %s\n", FormatMoney(p.AnnualExpense))
	fmt.Fprintf(buf, "- Annual Contribution: %s\n", FormatMoney(p.AnnualContribution))
	fmt.Fprintf(buf, "- Additional Retirement Income: %s\n", FormatMoney(p.AdditionalRetirementIncome))
	writeAssumptions(buf, p.Assumptions)
	fmt.Fprintf(buf, "- Target Success Rate: %s\n", FormatPercentage(p.TargetOrDefault()))
	fmt.Fprintf(buf, "- Simulations: %d\n\n", p.Trials)

	buf.WriteString("RETIREMENT READINESS:\n")
	fmt.Fprintf(buf, "- Projected Corpus at Retirement: %s\n", FormatMoney(r.ProjectedCorpus))
	fmt.Fprintf(buf, "- Required Corpus for Target Success Rate: %s\n", FormatMoney(r.RequiredCorpus))
	if shortfall := r.Shortfall(); shortfall <= 0 {
		fmt.Fprintf(buf, "- Current Status: On Track (Surplus of %s)\n", FormatMoney(-shortfall))
	} else {
		fmt.Fprintf(buf, "- Current Status: Shortfall (Shortfall of %s)\n", FormatMoney(shortfall))
	}
	fmt.Fprintf(buf, "- Success Probability: %s\n", FormatPercentage(r.SuccessRate))
	fmt.Fprintf(buf, "- Risk Level: %s\n", RiskLevel(r.SuccessRate))
	fmt.Fprintf(buf, "- Ending Balance: P10 %s, P50 %s, P90 %s\n", FormatMoney(r.Terminal.P10), FormatMoney(r.Terminal.P50), FormatMoney(r.Terminal.P90))

	buf.WriteString("\nNote: Success Probability is the chance that the projected corpus lasts from your\n")
	buf.WriteString("      retirement age to your life expectancy at your planned withdrawals.\n")
}

func writeScenarios(buf *bytes.Buffer, p domain.PlanParameters, set *domain.ScenarioSet) {
	buf.WriteString("\nSCENARIO ANALYSIS:\n")
	if set.MeetsTarget {
		buf.WriteString("CURRENT PLAN:\n")
		fmt.Fprintf(buf, "Your current plan meets the target success rate of %s (current: %s).\n",
			FormatPercentage(set.Target), FormatPercentage(set.CurrentSuccessRate))
		return
	}

	if c := set.Contribution; c != nil {
		buf.WriteString("INCREASE CONTRIBUTIONS:\n")
		fmt.Fprintf(buf, "Increase your annual contribution by %s to %s (success rate %s).\n\n",
			FormatMoney(c.Amount), FormatMoney(p.AnnualContribution+c.Amount), FormatPercentage(c.SuccessRate))
	}
	if d := set.Delay; d != nil {
		buf.WriteString("DELAY RETIREMENT:\n")
		fmt.Fprintf(buf, "Delay retirement by %d year(s) to age %d (success rate %s).\n\n",
			d.DelayYears, p.RetirementAge+d.DelayYears, FormatPercentage(d.SuccessRate))
	}
	if e := set.Expense; e != nil {
		buf.WriteString("REDUCE EXPENSES:\n")
		fmt.Fprintf(buf, "Reduce your annual expenses by %s to %s (success rate %s).\n\n",
			FormatMoney(e.Amount), FormatMoney(p.AnnualExpense-e.Amount), FormatPercentage(e.SuccessRate))
	}
	if b := set.Balanced; b != nil {
		buf.WriteString("BALANCED APPROACH:\n")
		fmt.Fprintf(buf, "%s (success rate %s).\n", b.Describe(FormatMoney), FormatPercentage(b.SuccessRate))
	}
}

func writeInflationImpact(buf *bytes.Buffer, r *domain.PlanReport) {
	buf.WriteString("\nINFLATION IMPACT:\n")
	fmt.Fprintf(buf, "- Current Annual Expense: %s\n", FormatMoney(r.Params.AnnualExpense))
	fmt.Fprintf(buf, "- Projected Annual Expense at Retirement: %s\n", FormatMoney(r.ExpenseAtRetirement))
}

func writeTracking(buf *bytes.Buffer, p domain.PlanParameters, track *domain.CorpusTrack) {
	writeHeader(buf, "YEAR-BY-YEAR RETIREMENT CORPUS TRACKING")

	fmt.Fprintf(buf, "%-5s| %-14s| %-14s| %-14s| %-14s| %-14s| %-14s| %-14s| %-14s| %-7s| %-10s| %s\n",
		"Age", "Start Corpus", "Contribution", "Withdrawal", "Expected Exp", "Returns", "End Corpus",
		"5th %tile", "95th %tile", "Risk", "Point Succ", "Status")
	buf.WriteString(strings.Repeat("-", 160) + "\n")

	for _, s := range track.Snapshots {
		fmt.Fprintf(buf, "%-5d| %-14s| %-14s| %-14s| %-14s| %-14s| %-14s| %-14s| %-14s| %-7s| %-10s| %s\n",
			s.Age, FormatMoney(s.StartCorpus), FormatMoney(s.Contribution), FormatMoney(s.Withdrawal),
			FormatMoney(s.ExpectedExpense), FormatMoney(s.Returns), FormatMoney(s.EndCorpus),
			FormatMoney(s.P5), FormatMoney(s.P95), FormatPercentage(s.DepletionRisk),
			FormatPercentage(s.PointSuccessRate), YearStatus(s.DepletionRisk))
	}

	buf.WriteString("\nNOTE ABOUT SUCCESS METRICS:\n")
	buf.WriteString("- Point Succ is the share of trials with funds remaining at that age, starting from the\n")
	buf.WriteString("  previous year's median corpus. It does not carry depletion from earlier years.\n")
	fmt.Fprintf(buf, "- Overall Success Probability over the whole retirement horizon: %s\n", FormatPercentage(track.OverallSuccessRate))

	buf.WriteString("\nKEY INSIGHTS:\n")
	for _, insight := range KeyInsights(p, track) {
		fmt.Fprintf(buf, "- %s\n", insight)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
