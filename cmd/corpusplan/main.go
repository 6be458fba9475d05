package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/config"
	"github.com/rgehrsitz/corpusplan/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what PersistentPreRunE prepares for every subcommand.
type app struct {
	settings *config.Settings
	logger   zerolog.Logger
}

// newEngine builds an engine from the runtime settings. progress may be nil.
func (a *app) newEngine(progress calculation.ProgressFunc) *calculation.Engine {
	opts := []calculation.Option{
		calculation.WithSeed(a.settings.Simulation.Seed),
		calculation.WithWorkers(a.settings.Simulation.Workers),
		calculation.WithProgressInterval(a.settings.Simulation.ProgressInterval),
		calculation.WithLogger(logging.NewCalcLogger(a.logger, "engine")),
	}
	if progress != nil {
		opts = append(opts, calculation.WithProgress(progress))
	}
	return calculation.NewEngine(opts...)
}

// logProgress reports engine checkpoints at debug level.
func (a *app) logProgress(p calculation.Progress) {
	a.logger.Debug().
		Str("stage", p.Stage).
		Int("completed", p.Completed).
		Int("total", p.Total).
		Msg("simulation progress")
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "corpusplan",
		Short: "Retirement corpus Monte Carlo calculator",
		Long: `Estimate the retirement corpus a plan needs and how likely it is to last,
using Monte Carlo simulation of monthly market returns.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			settings, err := config.LoadSettings(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				settings.Log.Level, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("seed") {
				settings.Simulation.Seed, _ = cmd.Flags().GetUint64("seed")
			}
			if cmd.Flags().Changed("workers") {
				settings.Simulation.Workers, _ = cmd.Flags().GetInt("workers")
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			logger, err := logging.Init(settings.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.settings = settings
			a.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Settings file (default: ./corpusplan.yaml or ~/.config/corpusplan/corpusplan.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Base random seed (overrides settings)")
	rootCmd.PersistentFlags().Int("workers", 0, "Simulation worker goroutines (0 means one per CPU)")

	rootCmd.AddCommand(basicCmd(a))
	rootCmd.AddCommand(advancedCmd(a))
	rootCmd.AddCommand(trackCmd(a))
	rootCmd.AddCommand(scenariosCmd(a))
	rootCmd.AddCommand(whatIfCmd(a))
	rootCmd.AddCommand(compareCmd(a))
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(tuiCmd(a))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "corpusplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
