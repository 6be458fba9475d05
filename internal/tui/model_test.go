package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/domain"
)

func sampleReport() *domain.PlanReport {
	return &domain.PlanReport{
		Params: domain.PlanParameters{
			Mode:           domain.ModeAdvanced,
			AnnualExpense:  50000,
			CurrentAge:     60,
			RetirementAge:  62,
			LifeExpectancy: 64,
			Trials:         1000,
		},
		ProjectedCorpus: 900000,
		RequiredCorpus:  1000000,
		SuccessRate:     78.5,
		Terminal:        domain.PercentileBand{P50: 250000},
		Track: &domain.CorpusTrack{
			OverallSuccessRate: 78.5,
			Snapshots: []domain.YearlySnapshot{
				{Age: 60, EndCorpus: 800000, P5: 700000, P95: 900000, PointSuccessRate: 100},
				{Age: 61, EndCorpus: 860000, P5: 720000, P95: 990000, PointSuccessRate: 100},
				{Age: 62, EndCorpus: 830000, P5: 650000, P95: 1000000, PointSuccessRate: 99},
				{Age: 63, EndCorpus: 790000, P5: 590000, P95: 1020000, PointSuccessRate: 97},
				{Age: 64, EndCorpus: 760000, P5: 530000, P95: 1050000, PointSuccessRate: 95},
			},
		},
	}
}

func staticRunner(report *domain.PlanReport, err error) Runner {
	return func(ctx context.Context, fn calculation.ProgressFunc) (*domain.PlanReport, error) {
		fn(calculation.Progress{Stage: "retirement horizon", Completed: 0, Total: 1000})
		fn(calculation.Progress{Stage: "retirement horizon", Completed: 1000, Total: 1000})
		return report, err
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_StartsLoading(t *testing.T) {
	m := NewModel("plan.yaml", staticRunner(sampleReport(), nil))

	assert.True(t, m.loading)
	assert.Equal(t, SceneSummary, m.currentScene)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Simulating starting")
	assert.Contains(t, m.View(), "plan.yaml / Summary")
}

func TestRunCmd_ForwardsProgressAndCloses(t *testing.T) {
	ch := make(chan calculation.Progress, progressBuffer)
	msg := runCmd(context.Background(), staticRunner(sampleReport(), nil), ch)()

	ready, ok := msg.(ReportReadyMsg)
	require.True(t, ok)
	assert.NoError(t, ready.Err)
	assert.Equal(t, 78.5, ready.Report.SuccessRate)

	first := waitForProgress(ch)()
	assert.Equal(t, ProgressMsg{Stage: "retirement horizon", Completed: 0, Total: 1000}, first)
	second := waitForProgress(ch)()
	assert.Equal(t, ProgressMsg{Stage: "retirement horizon", Completed: 1000, Total: 1000}, second)
	assert.Equal(t, progressClosedMsg{}, waitForProgress(ch)())
}

func TestUpdate_ProgressMovesBar(t *testing.T) {
	m := NewModel("", staticRunner(sampleReport(), nil))

	m, cmd := update(t, m, ProgressMsg{Stage: "corpus at age 62", Completed: 250, Total: 1000})
	assert.Equal(t, "corpus at age 62", m.stage)
	assert.InDelta(t, 0.25, m.fraction, 1e-9)
	assert.NotNil(t, cmd, "expected the next progress wait")
}

func TestUpdate_ReportReadyShowsSummary(t *testing.T) {
	m := NewModel("", staticRunner(nil, nil))
	m, _ = update(t, m, ReportReadyMsg{Report: sampleReport()})

	assert.False(t, m.loading)
	view := m.View()
	assert.Contains(t, view, "Success rate")
	assert.Contains(t, view, "78.5%")
	assert.Contains(t, view, "Projected corpus")
	assert.Contains(t, view, "short")
}

func TestUpdate_ErrorView(t *testing.T) {
	m := NewModel("", staticRunner(nil, nil))
	m, _ = update(t, m, ReportReadyMsg{Err: errors.New("boom")})

	assert.Equal(t, "boom", m.Err().Error())
	assert.Contains(t, m.View(), "Error: boom")
}

func TestKeys_Navigate(t *testing.T) {
	m := NewModel("", staticRunner(nil, nil))
	m, _ = update(t, m, ReportReadyMsg{Report: sampleReport()})

	m, _ = update(t, m, key("2"))
	assert.Equal(t, SceneTrack, m.currentScene)
	assert.Contains(t, m.View(), "Corpus by age")
	assert.Contains(t, m.View(), "Overall success")

	m, _ = update(t, m, key("3"))
	assert.Equal(t, SceneScenarios, m.currentScene)
	assert.Contains(t, m.View(), "No scenarios in this report")

	m, _ = update(t, m, key("?"))
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, SceneSummary, m.currentScene)
}

func TestKeys_ScenariosView(t *testing.T) {
	report := sampleReport()
	report.Scenarios = &domain.ScenarioSet{
		Target:             85,
		CurrentSuccessRate: 78.5,
		Contribution:       &domain.ScenarioAdjustment{Lever: domain.LeverContribution, Amount: 6000, SuccessRate: 85.2},
		Delay:              &domain.ScenarioAdjustment{Lever: domain.LeverDelay, DelayYears: 1, SuccessRate: 86},
		Expense:            &domain.ScenarioAdjustment{Lever: domain.LeverExpense, Amount: 4000, SuccessRate: 85.1},
		Balanced:           &domain.BalancedAdjustment{DelayYears: 1, SuccessRate: 86},
	}
	m := NewModel("", staticRunner(nil, nil))
	m, _ = update(t, m, ReportReadyMsg{Report: report})
	m, _ = update(t, m, key("s"))

	view := m.View()
	assert.Contains(t, view, "retire at 63")
	assert.Contains(t, view, "Balanced approach")
	assert.Contains(t, view, "Delay retirement by 1 year")
}

func TestKeys_RerunOnlyWhenIdle(t *testing.T) {
	m := NewModel("", staticRunner(nil, nil))
	firstCh := m.progressCh
	firstCtx := m.ctx

	m, cmd := update(t, m, key("r"))
	assert.Nil(t, cmd)
	assert.Equal(t, firstCh, m.progressCh)

	m, _ = update(t, m, ReportReadyMsg{Report: sampleReport()})
	m, cmd = update(t, m, key("r"))
	assert.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Nil(t, m.Report())
	assert.NotEqual(t, firstCh, m.progressCh)
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled, "previous run's context is released")
	assert.NoError(t, m.ctx.Err())
}

func TestKeys_QuitCancelsRun(t *testing.T) {
	m := NewModel("", staticRunner(nil, nil))
	ctx := m.ctx

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWindowSize(t *testing.T) {
	m := NewModel("", staticRunner(nil, nil))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 60, m.bar.Width)
}
