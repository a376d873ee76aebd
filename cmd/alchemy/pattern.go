package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/api"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/patterns"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/technique"
)

func newPatternCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "List, apply and export domain prompt patterns",
	}
	cmd.AddCommand(newPatternListCmd(a), newPatternApplyCmd(a), newPatternExportCmd(a))
	return cmd
}

func newPatternListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the pattern library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			domain := a.v.GetString("domain")
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDOMAIN\tVARIABLES\tDESCRIPTION")
			for _, p := range api.Patterns() {
				if domain != "" && p.Domain != analysis.NormalizeDomain(domain) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Domain, strings.Join(p.Variables, ","), p.Description)
			}
			return tw.Flush()
		},
	}
}

func newPatternApplyCmd(a *app) *cobra.Command {
	var vars map[string]string
	cmd := &cobra.Command{
		Use:   "apply <pattern-id> [prompt...]",
		Short: "Render a pattern from a prompt and variables",
		Long: `Apply fills the pattern's variables from "Label: value" lines in the prompt,
the pattern defaults and --var flags, then renders the template.`,
		Example: `  alchemy pattern apply technical_explainer "Concept: vector clocks" --var audience="new hires"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := a.readPrompt(args[1:])
			if err != nil {
				return err
			}
			resp := api.ApplyPattern(args[0], api.PatternApplyRequest{Prompt: prompt, Variables: vars})
			if !resp.Applied {
				return errors.New(resp.Error)
			}
			fmt.Fprintln(a.out, resp.Output)
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&vars, "var", nil, "pattern variable as key=value (repeatable)")
	return cmd
}

// patternExport is the YAML document written by pattern export.
type patternExport struct {
	LibraryVersion string             `yaml:"libraryVersion"`
	Patterns       []patterns.Pattern `yaml:"patterns"`
}

func newPatternExportCmd(a *app) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the pattern library as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(patternExport{
				LibraryVersion: patterns.LibraryVersion,
				Patterns:       patterns.List(),
			})
			if err != nil {
				return fmt.Errorf("failed to encode patterns: %w", err)
			}
			if outFile == "" {
				_, err = a.out.Write(data)
				return err
			}
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			a.logger.Info("patterns exported", "file", outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write to a file instead of stdout")
	return cmd
}

func newTechniquesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "techniques",
		Short: "List the prompt engineering technique catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tEFFECTIVENESS\tDESCRIPTION")
			for _, t := range technique.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.ID, t.Category, t.Effectiveness, t.Description)
			}
			return tw.Flush()
		},
	}
}
