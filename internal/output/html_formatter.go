package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":  FormatMoney,
	"pct":    FormatPercentage,
	"rate":   FormatRate,
	"risk":   RiskLevel,
	"status": YearStatus,
	"sub":    func(a, b float64) float64 { return a - b },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.PlanReport
		Basic       bool
		Kind        string
		Target      float64
		Shortfall   float64
		Insights    []string
		Assumptions []string
	}{
		PlanReport:  report,
		Basic:       report.Params.Mode == domain.ModeBasic,
		Kind:        ReportKind(report),
		Target:      report.Params.TargetOrDefault(),
		Shortfall:   report.Shortfall(),
		Insights:    KeyInsights(report.Params, report.Track),
		Assumptions: DefaultAssumptions,
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
