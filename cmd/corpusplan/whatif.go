package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/corpusplan/internal/output"
	"github.com/rgehrsitz/corpusplan/internal/planner"
	"github.com/rgehrsitz/corpusplan/internal/transform"
)

func whatIfCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif [plan-file]",
		Short: "Compare a plan with modified versions of itself",
		Long: `Apply transforms or built-in templates to a plan and compare success rates.

Examples:
  corpusplan whatif plan.yaml --transform delay:years=2 --transform contribute:amount=5000
  corpusplan whatif plan.yaml --template work_1yr,save_more,balanced_push
  corpusplan whatif --list-templates
  corpusplan whatif --list-transforms
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := transform.NewTransformRegistry()
			out := cmd.OutOrStdout()

			if list, _ := cmd.Flags().GetBool("list-transforms"); list {
				fmt.Fprintf(out, "Available transforms: %s\n", strings.Join(registry.List(), ", "))
				return nil
			}
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates(0)))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("plan file required (use --list-templates or --list-transforms to browse)")
			}

			params, err := loadPlan(cmd, args[0])
			if err != nil {
				return err
			}
			specs, _ := cmd.Flags().GetStringArray("transform")
			templateList, _ := cmd.Flags().GetString("template")
			if len(specs) == 0 && templateList == "" {
				return fmt.Errorf("--transform or --template is required")
			}

			pl := planner.New(a.newEngine(a.logProgress))

			if len(specs) > 0 {
				transforms, err := registry.ParseTransformSpecs(specs)
				if err != nil {
					return err
				}
				result, err := pl.WhatIf(cmd.Context(), params, transforms)
				if err != nil {
					return err
				}
				writeWhatIf(out, "custom", result)
			}

			templates := transform.CreateBuiltInTemplates(params.AnnualExpense)
			for _, name := range transform.ParseTemplateList(templateList) {
				tmpl, ok := templates.Get(name)
				if !ok {
					return fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(templates.List(), ", "))
				}
				result, err := pl.WhatIf(cmd.Context(), params, tmpl.Transforms)
				if err != nil {
					return fmt.Errorf("template %s: %w", tmpl.Name, err)
				}
				writeWhatIf(out, tmpl.Name, result)
			}
			return nil
		},
	}

	cmd.Flags().StringArray("transform", nil, "Transform spec name:key=value[,key=value] (repeatable)")
	cmd.Flags().String("template", "", "Comma-separated list of built-in templates")
	cmd.Flags().Bool("list-templates", false, "List the built-in templates")
	cmd.Flags().Bool("list-transforms", false, "List the available transforms")
	cmd.Flags().Int("trials", 0, "Override the plan's number of trials")
	return cmd
}

func writeWhatIf(w io.Writer, name string, r *planner.WhatIfResult) {
	fmt.Fprintf(w, "WHAT-IF: %s\n", name)
	for _, applied := range r.Applied {
		fmt.Fprintf(w, "  - %s\n", applied)
	}
	fmt.Fprintf(w, "  Projected corpus: %s -> %s\n", output.FormatMoney(r.BaseCorpus), output.FormatMoney(r.AdjustedCorpus))
	fmt.Fprintf(w, "  Success rate:     %s -> %s (%+.1f points)\n\n",
		output.FormatPercentage(r.BaseRate), output.FormatPercentage(r.AdjustedRate), r.RateImprovement)
}
