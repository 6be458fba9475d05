package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/corpusplan/internal/compare"
	"github.com/rgehrsitz/corpusplan/internal/planner"
	"github.com/rgehrsitz/corpusplan/internal/transform"
)

const defaultCompareTemplates = "work_1yr,work_3yr,save_more,spend_less,balanced_push"

func compareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [plan-file]",
		Short: "Rank built-in what-if templates against a plan",
		Long: `Evaluate a plan and a set of template scenarios side by side.

Examples:
  corpusplan compare plan.yaml
  corpusplan compare plan.yaml --templates work_3yr,market_low_returns --format csv
  corpusplan compare plan.yaml --transform contribute:amount=10000 --format json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loadPlan(cmd, args[0])
			if err != nil {
				return err
			}

			templateList, _ := cmd.Flags().GetString("templates")
			specs, _ := cmd.Flags().GetStringArray("transform")
			custom, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
			if err != nil {
				return err
			}
			baseName, _ := cmd.Flags().GetString("base-name")

			engine := compare.NewCompareEngine(planner.New(a.newEngine(a.logProgress)))
			set, err := engine.Compare(cmd.Context(), params, compare.CompareOptions{
				BaseScenarioName: baseName,
				Templates:        transform.ParseTemplateList(templateList),
				Custom:           custom,
				PlanPath:         args[0],
			})
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			rendered, err := compare.Format(set, format)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)

			if outFile, _ := cmd.Flags().GetString("output"); outFile != "" {
				if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				if err := os.WriteFile(outFile, []byte(rendered), 0o644); err != nil {
					return fmt.Errorf("failed to write comparison: %w", err)
				}
				a.logger.Info().Str("path", outFile).Int("scenarios", len(set.AlternativeResults)).Msg("comparison saved")
				fmt.Fprintf(cmd.ErrOrStderr(), "Comparison saved to %s\n", outFile)
			}
			return nil
		},
	}

	cmd.Flags().String("templates", defaultCompareTemplates,
		"Comma-separated templates ("+strings.Join(transform.CreateBuiltInTemplates(0).List(), ", ")+")")
	cmd.Flags().StringArray("transform", nil, "Extra custom scenario from transform specs (repeatable)")
	cmd.Flags().String("base-name", compare.BaseScenarioName, "Label for the unchanged plan")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().StringP("output", "o", "", "Also write the comparison to this file")
	cmd.Flags().Int("trials", 0, "Override the plan's number of trials")
	return cmd
}
