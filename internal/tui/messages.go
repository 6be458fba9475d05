package tui

import (
	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneSummary Scene = iota
	SceneTrack
	SceneScenarios
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneSummary:
		return "Summary"
	case SceneTrack:
		return "Yearly Track"
	case SceneScenarios:
		return "Scenarios"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ProgressMsg carries an engine checkpoint.
type ProgressMsg calculation.Progress

// progressClosedMsg is sent once the run has stopped reporting progress.
type progressClosedMsg struct{}

// ReportReadyMsg signals the calculation has finished
type ReportReadyMsg struct {
	Report *domain.PlanReport
	Err    error
}
