package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/api"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [prompt...]",
		Short: "Score a prompt and list its issues",
		Long: `Analyze classifies a prompt, scores its quality, detects missing context
and evaluates its tone. The prompt is read from stdin when no argument is given.`,
		Example: `  alchemy analyze "Explain recursion"
  cat prompt.txt | alchemy analyze --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := a.readPrompt(args)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := svc.Analyze(cmd.Context(), api.AnalyzeRequest{
				Prompt:   prompt,
				Domain:   a.v.GetString("domain"),
				Tone:     a.v.GetString("analyze.tone"),
				Enhanced: a.v.GetBool("enhanced"),
				Strategy: a.v.GetString("strategy"),
			})
			if err != nil {
				return err
			}

			if a.v.GetBool("analyze.json") {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			fmt.Fprint(a.out, api.RenderAnalysis(resp.Analysis))
			if resp.Provider != "" {
				fmt.Fprintf(a.out, "Enhanced by: %s\n", resp.Provider)
			}
			if resp.EnhancedError != "" {
				fmt.Fprintf(a.out, "Enhanced analysis unavailable: %s\n", resp.EnhancedError)
			}
			return nil
		},
	}

	cmd.Flags().String("tone", "", "declared tone to evaluate instead of the detected one")
	cmd.Flags().Bool("json", false, "print the full analysis as JSON")
	_ = a.v.BindPFlag("analyze.tone", cmd.Flags().Lookup("tone"))
	_ = a.v.BindPFlag("analyze.json", cmd.Flags().Lookup("json"))
	return cmd
}
