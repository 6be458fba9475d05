// Package tui is the interactive terminal front end. It runs one plan
// calculation, shows engine progress while it runs and then lets the user
// browse the summary, the yearly track and the scenarios.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/tui/tuistyles"
)

const progressBuffer = 64

// Runner performs one calculation and reports engine progress to fn.
type Runner func(ctx context.Context, fn calculation.ProgressFunc) (*domain.PlanReport, error)

// Model represents the entire application state
type Model struct {
	currentScene Scene

	width  int
	height int

	planName string
	run      Runner

	// Run state; replaced on every rerun.
	ctx        context.Context
	cancel     context.CancelFunc
	progressCh chan calculation.Progress

	loading  bool
	stage    string
	fraction float64
	bar      progress.Model
	spin     spinner.Model

	report *domain.PlanReport
	err    error
}

// NewModel creates a model that starts run as soon as the program starts.
func NewModel(planName string, run Runner) Model {
	m := Model{
		currentScene: SceneSummary,
		planName:     planName,
		run:          run,
		width:        80,
		height:       24,
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(tuistyles.StatusKeyStyle),
		),
	}
	m.resetRun()
	return m
}

func (m *Model) resetRun() {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.progressCh = make(chan calculation.Progress, progressBuffer)
	m.loading = true
	m.stage = "starting"
	m.fraction = 0
	m.report = nil
	m.err = nil
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, runCmd(m.ctx, m.run, m.progressCh), waitForProgress(m.progressCh))
}

// Report returns the finished report, if any.
func (m Model) Report() *domain.PlanReport { return m.report }

// Err returns the calculation error, if any.
func (m Model) Err() error { return m.err }

// runCmd runs the calculation off the update loop. Progress is forwarded
// without blocking the engine; checkpoints are dropped when the UI lags.
func runCmd(ctx context.Context, run Runner, ch chan calculation.Progress) tea.Cmd {
	return func() tea.Msg {
		report, err := run(ctx, func(p calculation.Progress) {
			select {
			case ch <- p:
			default:
			}
		})
		close(ch)
		return ReportReadyMsg{Report: report, Err: err}
	}
}

// waitForProgress blocks until the next checkpoint.
func waitForProgress(ch <-chan calculation.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		return ProgressMsg(p)
	}
}
