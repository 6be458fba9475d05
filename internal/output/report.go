package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// reportTimeLayout renders timestamps as yyyyMMdd_HHmmss.
const reportTimeLayout = "20060102_150405"

// ReportKind names a report for file naming: Basic, Advanced or Tracking.
func ReportKind(report *domain.PlanReport) string {
	switch {
	case report.Params.Mode == domain.ModeBasic:
		return "Basic"
	case report.Track != nil && report.Scenarios == nil:
		return "Tracking"
	default:
		return "Advanced"
	}
}

// ReportFileName builds RetirementReport_<Kind>_<yyyyMMdd_HHmmss>.<ext>.
func ReportFileName(kind, ext string, now time.Time) string {
	return fmt.Sprintf("RetirementReport_%s_%s.%s", kind, now.Format(reportTimeLayout), ext)
}

// SaveReport writes content into dir under the report file name and returns
// the full path. dir is created when missing.
func SaveReport(dir, kind string, content []byte, ext string, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, ReportFileName(kind, ext, now))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return path, nil
}

// ReportGenerator writes reports in a named format.
type ReportGenerator struct {
	out io.Writer
}

// NewReportGenerator creates a generator writing to out.
func NewReportGenerator(out io.Writer) *ReportGenerator {
	return &ReportGenerator{out: out}
}

// GenerateReport renders report in format and writes it to the generator's writer.
func (rg *ReportGenerator) GenerateReport(report *domain.PlanReport, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s", format)
	}
	content, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("formatting %s report: %w", f.Name(), err)
	}
	_, err = rg.out.Write(content)
	return err
}
