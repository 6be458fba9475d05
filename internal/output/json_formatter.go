package output

import (
	"github.com/goccy/go-json"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// JSONFormatter renders the report as JSON.
type JSONFormatter struct {
	Indent bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	view := struct {
		*domain.PlanReport
		RiskLevel   string   `json:"riskLevel"`
		Shortfall   float64  `json:"shortfall"`
		MeetsTarget bool     `json:"meetsTarget"`
		Insights    []string `json:"insights,omitempty"`
	}{
		PlanReport:  report,
		RiskLevel:   RiskLevel(report.SuccessRate),
		Shortfall:   report.Shortfall(),
		MeetsTarget: report.MeetsTarget(),
		Insights:    KeyInsights(report.Params, report.Track),
	}
	if j.Indent {
		return json.MarshalIndent(view, "", "  ")
	}
	return json.Marshal(view)
}
