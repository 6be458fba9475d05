package main

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/planner"
	"github.com/rgehrsitz/corpusplan/internal/tui"
)

func tuiCmd(a *app) *cobra.Command {
	var scenarios, track bool
	cmd := &cobra.Command{
		Use:   "tui [plan-file]",
		Short: "Run a plan in the interactive terminal UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loadPlan(cmd, args[0])
			if err != nil {
				return err
			}

			run := func(ctx context.Context, progress calculation.ProgressFunc) (*domain.PlanReport, error) {
				pl := planner.New(a.newEngine(progress))
				if params.Mode == domain.ModeBasic {
					return pl.RunBasic(ctx, params)
				}
				return pl.RunAdvanced(ctx, params, planner.AdvancedOptions{Scenarios: scenarios, Track: track})
			}

			model := tui.NewModel(filepath.Base(args[0]), run)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&scenarios, "scenarios", false, "Search contribution, delay and expense levers")
	cmd.Flags().BoolVar(&track, "track", true, "Include the year-by-year corpus track")
	cmd.Flags().Int("trials", 0, "Override the plan's number of trials")
	return cmd
}
