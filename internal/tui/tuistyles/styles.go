// Package tuistyles holds the shared lipgloss palette so components and the
// top-level model can use it without an import cycle.
package tuistyles

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorSecondary = lipgloss.Color("#3C3C3C")
	ColorAccent    = lipgloss.Color("#F25D94")
	ColorSuccess   = lipgloss.Color("#04B575")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5F87")
	ColorInfo      = lipgloss.Color("#5FAFFF")

	ColorForeground = lipgloss.Color("#FAFAFA")
	ColorMuted      = lipgloss.Color("#8A8A8A")
	ColorBorder     = lipgloss.Color("#4A4A4A")

	ColorChartLine1 = lipgloss.Color("#5FAFFF")
	ColorChartLine2 = lipgloss.Color("#04B575")
	ColorChartLine3 = lipgloss.Color("#FF5F87")
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Foreground(ColorForeground).
				Bold(true)

	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	TableCellStyle = lipgloss.NewStyle().
			Foreground(ColorForeground)
)

// MetricTrendStyle colours a change by direction.
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// TrendIndicator returns an arrow for a change direction.
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "▲"
	}
	return "▼"
}

// RiskStyle colours a success rate by its risk band.
func RiskStyle(successRate float64) lipgloss.Style {
	switch {
	case successRate >= 85:
		return MetricPositiveStyle
	case successRate >= 70:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return MetricNegativeStyle
	}
}

// FormatCompactMoney abbreviates amounts for narrow columns ($1.2M, $350K).
func FormatCompactMoney(value float64) string {
	switch {
	case math.Abs(value) >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("$%.0fK", value/1000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}
