package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/api"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
)

// techniqueFlags maps each boolean flag to its viper key.
var techniqueFlags = []struct {
	flag, key, usage string
}{
	{"cot", "optimize.chain_of_thought", "add step-by-step reasoning"},
	{"persona", "optimize.persona", "add a domain expert persona"},
	{"react", "optimize.react", "add a Thought/Action/Observation loop"},
	{"tot", "optimize.tree_of_thoughts", "explore several solution branches"},
	{"self-consistency", "optimize.self_consistency", "solve several ways and compare"},
	{"role-play", "optimize.role_play", "frame the task as a role-play"},
	{"constraints", "optimize.constraints", "add explicit constraints"},
	{"few-shot", "optimize.few_shot", "add example slots"},
	{"token-optimization", "optimize.token_optimization", "strip filler words"},
	{"auto", "optimize.auto", "apply the techniques the selector recommends"},
}

func newOptimizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [prompt...]",
		Short: "Rewrite a prompt with prompt engineering techniques",
		Long: `Optimize analyzes the prompt and rewrites it. In system mode the prompt is
wrapped in a complete system prompt; in normal mode techniques are layered
onto the prompt. The prompt is read from stdin when no argument is given.`,
		Example: `  alchemy optimize --cot --persona "Design a rate limiter"
  alchemy optimize --mode system --platform claude --format markdown < task.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := a.readPrompt(args)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := svc.Optimize(cmd.Context(), api.OptimizeRequest{
				Prompt:   prompt,
				Domain:   a.v.GetString("domain"),
				Mode:     a.v.GetString("optimize.mode"),
				Options:  optionsFromViper(a.v),
				Enhanced: a.v.GetBool("enhanced"),
				Strategy: a.v.GetString("strategy"),
			})
			if err != nil {
				return err
			}

			out, err := api.Render(resp.Result, a.v.GetString("optimize.format"))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, out)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("mode", string(optimize.ModeNormal), "optimization mode: normal or system")
	f.String("platform", optimize.PlatformGeneric, "target platform (chatgpt, claude, gemini, llama, generic)")
	f.String("tone", "", "tone to write in")
	f.String("format", api.FormatText, "output format: text, markdown or json")
	f.StringSlice("technique", nil, "technique ids to apply in order (repeatable)")
	f.String("pattern", "", "domain pattern id to render before optimizing")
	f.StringToString("var", nil, "pattern variable as key=value (repeatable)")
	for _, t := range techniqueFlags {
		f.Bool(t.flag, false, t.usage)
		_ = a.v.BindPFlag(t.key, f.Lookup(t.flag))
	}
	for key, flag := range map[string]string{
		"optimize.mode":       "mode",
		"optimize.platform":   "platform",
		"optimize.tone":       "tone",
		"optimize.format":     "format",
		"optimize.techniques": "technique",
		"optimize.pattern":    "pattern",
		"optimize.variables":  "var",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

func optionsFromViper(v *viper.Viper) optimize.Options {
	return optimize.Options{
		UseChainOfThought:    v.GetBool("optimize.chain_of_thought"),
		UsePersona:           v.GetBool("optimize.persona"),
		UseReAct:             v.GetBool("optimize.react"),
		UseTreeOfThoughts:    v.GetBool("optimize.tree_of_thoughts"),
		UseSelfConsistency:   v.GetBool("optimize.self_consistency"),
		UseRolePlay:          v.GetBool("optimize.role_play"),
		UseConstraints:       v.GetBool("optimize.constraints"),
		UseFewShot:           v.GetBool("optimize.few_shot"),
		UseTokenOptimization: v.GetBool("optimize.token_optimization"),
		AutoTechniques:       v.GetBool("optimize.auto"),
		TechniqueIDs:         v.GetStringSlice("optimize.techniques"),
		PatternID:            v.GetString("optimize.pattern"),
		PatternVariables:     v.GetStringMapString("optimize.variables"),
		Platform:             v.GetString("optimize.platform"),
		Tone:                 analysis.Tone(v.GetString("optimize.tone")),
	}
}
