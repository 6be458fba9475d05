package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// Formatter renders a plan report in one output format.
type Formatter interface {
	Name() string
	Format(report *domain.PlanReport) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(report *domain.PlanReport) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *domain.PlanReport) ([]byte, error) { return f.F(report) }

// Extension returns the file extension for a formatter name.
func Extension(name string) string {
	switch name {
	case "html":
		return "html"
	case "json":
		return "json"
	case "csv":
		return "csv"
	default:
		return "txt"
	}
}

var formatterAliases = map[string]string{
	"console": "console",
	"text":    "console",
	"txt":     "console",
	"html":    "html",
	"json":    "json",
	"csv":     "csv",
}

// GetFormatterByName resolves a format name or alias. It returns nil for
// unknown names.
func GetFormatterByName(name string) Formatter {
	switch formatterAliases[strings.ToLower(strings.TrimSpace(name))] {
	case "console":
		return ConsoleFormatter{}
	case "html":
		return HTMLFormatter{}
	case "json":
		return JSONFormatter{Indent: true}
	case "csv":
		return CSVFormatter{}
	default:
		return nil
	}
}

// AvailableFormatterNames lists the canonical formatter names.
func AvailableFormatterNames() []string {
	return []string{"console", "csv", "html", "json"}
}

// AvailableFormatAliases lists every accepted format name.
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(formatterAliases))
	for alias := range formatterAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders report with f and saves it under dir using the
// report file naming scheme. It returns the written path.
func WriteFormatted(f Formatter, report *domain.PlanReport, dir string) (string, error) {
	content, err := f.Format(report)
	if err != nil {
		return "", fmt.Errorf("formatting %s report: %w", f.Name(), err)
	}
	now := report.GeneratedAt
	if now.IsZero() {
		now = time.Now()
	}
	return SaveReport(dir, ReportKind(report), content, Extension(f.Name()), now)
}
