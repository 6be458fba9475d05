package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/corpusplan/internal/config"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/output"
	"github.com/rgehrsitz/corpusplan/internal/planner"
)

type runFunc func(ctx context.Context, pl *planner.Planner, p domain.PlanParameters) (*domain.PlanReport, error)

// planCommand builds one of the report commands. They share plan loading,
// the trial override and report output.
func planCommand(a *app, use, short string, run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [plan-file]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loadPlan(cmd, args[0])
			if err != nil {
				return err
			}
			a.logger.Info().
				Str("plan", args[0]).
				Str("mode", string(params.Mode)).
				Int("trials", params.Trials).
				Uint64("seed", a.settings.Simulation.Seed).
				Msg("running plan")

			pl := planner.New(a.newEngine(a.logProgress))
			report, err := run(cmd.Context(), pl, params)
			if err != nil {
				return err
			}
			return a.emitReport(cmd, report)
		},
	}
	addReportFlags(cmd)
	return cmd
}

func basicCmd(a *app) *cobra.Command {
	return planCommand(a, "basic", "Calculate the corpus a flat annual expense needs",
		func(ctx context.Context, pl *planner.Planner, p domain.PlanParameters) (*domain.PlanReport, error) {
			return pl.RunBasic(ctx, p)
		})
}

func advancedCmd(a *app) *cobra.Command {
	var scenarios, track bool
	cmd := planCommand(a, "advanced", "Evaluate an age-based plan against its target success rate",
		func(ctx context.Context, pl *planner.Planner, p domain.PlanParameters) (*domain.PlanReport, error) {
			return pl.RunAdvanced(ctx, p, planner.AdvancedOptions{Scenarios: scenarios, Track: track})
		})
	cmd.Flags().BoolVar(&scenarios, "scenarios", false, "Search contribution, delay and expense levers")
	cmd.Flags().BoolVar(&track, "track", false, "Include the year-by-year corpus track")
	return cmd
}

func trackCmd(a *app) *cobra.Command {
	return planCommand(a, "track", "Track the median corpus year by year",
		func(ctx context.Context, pl *planner.Planner, p domain.PlanParameters) (*domain.PlanReport, error) {
			return pl.RunTrack(ctx, p)
		})
}

func scenariosCmd(a *app) *cobra.Command {
	return planCommand(a, "scenarios", "Find the changes that reach the target success rate",
		func(ctx context.Context, pl *planner.Planner, p domain.PlanParameters) (*domain.PlanReport, error) {
			return pl.RunScenarios(ctx, p)
		})
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [plan-file]",
		Short: "Validate a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.NewInputParser().LoadFromFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid\n", args[0])
			return nil
		},
	}
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "console", "Output format (console, html, json, csv)")
	cmd.Flags().Bool("save", false, "Also save the report to a file")
	cmd.Flags().String("output-dir", "", "Directory for saved reports (default from settings)")
	cmd.Flags().Int("trials", 0, "Override the plan's number of trials")
}

func loadPlan(cmd *cobra.Command, path string) (domain.PlanParameters, error) {
	params, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return domain.PlanParameters{}, err
	}
	if trials, _ := cmd.Flags().GetInt("trials"); trials > 0 {
		if trials < config.MinTrials || trials > config.MaxTrials {
			return domain.PlanParameters{}, fmt.Errorf("%w: trials must be between %d and %d",
				domain.ErrInvalidInput, config.MinTrials, config.MaxTrials)
		}
		params = params.WithTrials(trials)
	}
	return params, nil
}

// emitReport writes the report to stdout and, with --save, to a report file.
func (a *app) emitReport(cmd *cobra.Command, report *domain.PlanReport) error {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format %q (available: %v)", format, output.AvailableFormatAliases())
	}
	if err := output.NewReportGenerator(cmd.OutOrStdout()).GenerateReport(report, format); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		dir, _ := cmd.Flags().GetString("output-dir")
		if dir == "" {
			dir = a.settings.Report.Dir
		}
		path, err := output.WriteFormatted(f, report, dir)
		if err != nil {
			return err
		}
		a.logger.Info().Str("path", path).Msg("report saved")
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", path)
	}
	return nil
}
