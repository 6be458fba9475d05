package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// CSVFormatter writes one row per tracked year, or a single summary row when
// the report has no yearly track.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if report.Track == nil {
		header := []string{"Mode", "ProjectedCorpus", "RequiredCorpus", "SuccessRate", "RiskLevel", "P10", "P50", "P90"}
		if err := w.Write(header); err != nil {
			return nil, err
		}
		row := []string{
			string(report.Params.Mode),
			money(report.ProjectedCorpus),
			money(report.RequiredCorpus),
			percent(report.SuccessRate),
			RiskLevel(report.SuccessRate),
			money(report.Terminal.P10),
			money(report.Terminal.P50),
			money(report.Terminal.P90),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	} else {
		header := []string{"Age", "Phase", "StartCorpus", "Contribution", "Withdrawal", "ExpectedExpense", "Returns", "EndCorpus", "P5", "P95", "DepletionRisk", "PointSuccessRate", "Status"}
		if err := w.Write(header); err != nil {
			return nil, err
		}
		for _, s := range report.Track.Snapshots {
			row := []string{
				strconv.Itoa(s.Age),
				string(s.Phase),
				money(s.StartCorpus),
				money(s.Contribution),
				money(s.Withdrawal),
				money(s.ExpectedExpense),
				money(s.Returns),
				money(s.EndCorpus),
				money(s.P5),
				money(s.P95),
				percent(s.DepletionRisk),
				percent(s.PointSuccessRate),
				YearStatus(s.DepletionRisk),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
