package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/output"
	"github.com/rgehrsitz/corpusplan/internal/tui/components"
	"github.com/rgehrsitz/corpusplan/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.loading:
		content = m.renderLoading()
	case m.err != nil:
		content = tuistyles.ErrorStyle.Render("Error: "+m.err.Error()) + "\n\nPress r to retry or q to quit."
	default:
		switch m.currentScene {
		case SceneSummary:
			content = m.renderSummary()
		case SceneTrack:
			content = m.renderTrack()
		case SceneScenarios:
			content = m.renderScenarios()
		case SceneHelp:
			content = renderHelp()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTitleBar(), "", content, "", m.renderStatusBar())
}

func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("CORPUSPLAN - Retirement Corpus Monte Carlo")
	crumb := m.currentScene.String()
	if m.planName != "" {
		crumb = m.planName + " / " + crumb
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(crumb))
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("1", "summary"),
		formatShortcut("2", "track"),
		formatShortcut("3", "scenarios"),
		formatShortcut("r", "rerun"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	return tuistyles.StatusBarStyle.Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(key, desc string) string {
	return tuistyles.StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderLoading() string {
	status := fmt.Sprintf("%s Simulating %s...", m.spin.View(), m.stage)
	return tuistyles.BorderStyle.Render(status + "\n\n" + m.bar.ViewAs(m.fraction))
}

func (m Model) renderSummary() string {
	r := m.report
	sections := []string{components.MetricGrid(components.ReportCards(r), 2)}
	if r.Params.Mode == domain.ModeAdvanced {
		sections = append(sections, tuistyles.SubtitleStyle.Render(fmt.Sprintf(
			"Retire at %d, plan to %d. Expense at retirement %s.",
			r.Params.RetirementAge, r.Params.LifeExpectancy, output.FormatMoney(r.ExpenseAtRetirement))))
	}
	if insights := output.KeyInsights(r.Params, r.Track); len(insights) > 0 {
		var b strings.Builder
		b.WriteString(tuistyles.TableHeaderStyle.Render("Key insights"))
		for _, insight := range insights {
			b.WriteString("\n• " + insight)
		}
		sections = append(sections, b.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTrack() string {
	track := m.report.Track
	if track == nil {
		return tuistyles.InfoStyle.Render("No yearly track in this report. Start with --track to include it.")
	}
	chart := components.NewCorpusChart(track).WithSize(max(40, m.width-4), max(8, m.height-16)).Render()
	overall := fmt.Sprintf("Overall success over the retirement horizon: %s",
		tuistyles.RiskStyle(track.OverallSuccessRate).Render(output.FormatPercentage(track.OverallSuccessRate)))
	return lipgloss.JoinVertical(lipgloss.Left, chart, "", overall)
}

func (m Model) renderScenarios() string {
	set := m.report.Scenarios
	if set == nil {
		return tuistyles.InfoStyle.Render("No scenarios in this report. Start with --scenarios to include them.")
	}
	head := fmt.Sprintf("Target %s, current %s",
		output.FormatPercentage(set.Target), output.FormatPercentage(set.CurrentSuccessRate))
	if set.MeetsTarget {
		return head + "\n\n" + tuistyles.MetricPositiveStyle.Render("The current plan already meets the target.")
	}

	p := m.report.Params
	var cards []*components.MetricCard
	if c := set.Contribution; c != nil {
		cards = append(cards, components.NewMetricCard("Save more", "+"+output.FormatMoney(c.Amount)+"/yr").
			WithDescription("success "+output.FormatPercentage(c.SuccessRate)))
	}
	if d := set.Delay; d != nil {
		cards = append(cards, components.NewMetricCard("Work longer", fmt.Sprintf("retire at %d", p.RetirementAge+d.DelayYears)).
			WithDescription("success "+output.FormatPercentage(d.SuccessRate)))
	}
	if e := set.Expense; e != nil {
		cards = append(cards, components.NewMetricCard("Spend less", "-"+output.FormatMoney(e.Amount)+"/yr").
			WithDescription("success "+output.FormatPercentage(e.SuccessRate)))
	}
	body := components.MetricGrid(cards, 3)
	if b := set.Balanced; b != nil {
		body += "\n\n" + tuistyles.TableHeaderStyle.Render("Balanced approach") + "\n" +
			b.Describe(output.FormatMoney) + " (success " + output.FormatPercentage(b.SuccessRate) + ")"
	}
	return head + "\n\n" + body
}

func renderHelp() string {
	return tuistyles.BorderStyle.Render(`KEYBOARD SHORTCUTS:
  1 / esc  Summary
  2 / t    Yearly corpus track
  3 / s    Lever scenarios
  r        Run the calculation again
  ?        Show this help
  q/Ctrl+C Quit`)
}
