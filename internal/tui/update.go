package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(msg.Width-20, 60))
		return m, nil

	case NavigateMsg:
		m.currentScene = msg.Scene
		return m, nil

	case ProgressMsg:
		m.stage = msg.Stage
		if msg.Total > 0 {
			m.fraction = float64(msg.Completed) / float64(msg.Total)
		}
		return m, waitForProgress(m.progressCh)

	case progressClosedMsg:
		return m, nil

	case ReportReadyMsg:
		m.loading = false
		m.report = msg.Report
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.cancel()
		return m, tea.Quit

	case "?":
		m.currentScene = SceneHelp
	case "esc", "1":
		m.currentScene = SceneSummary
	case "2", "t":
		m.currentScene = SceneTrack
	case "3", "s":
		m.currentScene = SceneScenarios

	case "r":
		if m.loading {
			return m, nil
		}
		m.resetRun()
		return m, m.Init()
	}
	return m, nil
}
