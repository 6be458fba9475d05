package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/output"
	"github.com/rgehrsitz/corpusplan/internal/tui/tuistyles"
)

// MetricCard displays a single metric with label, value, and optional trend
type MetricCard struct {
	Label       string
	Value       string
	ValueStyle  lipgloss.Style
	Trend       *Trend
	Description string
	Width       int
}

// Trend represents a metric's change direction and amount
type Trend struct {
	IsPositive bool
	Change     string // e.g., "+$5,234" or "-2.3%"
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label:      label,
		Value:      value,
		ValueStyle: tuistyles.MetricValueStyle,
		Width:      26,
	}
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{IsPositive: isPositive, Change: change}
	return m
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithValueStyle overrides the value style, e.g. to colour a success rate.
func (m *MetricCard) WithValueStyle(style lipgloss.Style) *MetricCard {
	m.ValueStyle = style
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + m.ValueStyle.Render(m.Value)
	if m.Trend != nil {
		trendStyle := tuistyles.MetricTrendStyle(m.Trend.IsPositive)
		content += "\n" + trendStyle.Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Trend.IsPositive), m.Trend.Change))
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// ReportCards builds the headline cards of a report. Age-based reports add
// the projected corpus and its gap to the required corpus.
func ReportCards(report *domain.PlanReport) []*MetricCard {
	rate := report.SuccessRate
	cards := []*MetricCard{
		NewMetricCard("Success rate", output.FormatPercentage(rate)).
			WithValueStyle(tuistyles.RiskStyle(rate)).
			WithDescription(output.RiskLevel(rate) + " risk"),
		NewMetricCard("Required corpus", output.FormatMoney(report.RequiredCorpus)).
			WithDescription(fmt.Sprintf("for %.0f%% success", report.Params.TargetOrDefault())),
	}
	if report.Params.Mode == domain.ModeAdvanced {
		gap := report.Shortfall()
		card := NewMetricCard("Projected corpus", output.FormatMoney(report.ProjectedCorpus))
		if gap > 0 {
			card.WithTrend(false, output.FormatMoney(gap)+" short")
		} else {
			card.WithTrend(true, output.FormatMoney(-gap)+" ahead")
		}
		cards = append(cards, card)
	}
	cards = append(cards, NewMetricCard("Median terminal", output.FormatMoney(report.Terminal.P50)))
	return cards
}

// MetricGrid renders multiple metric cards in a grid layout
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}

	var rows, currentRow []string
	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
