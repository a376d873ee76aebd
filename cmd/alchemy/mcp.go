package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/api"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/service"
)

const mcpServerName = "prompt-alchemy"

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve analyze, optimize and pattern tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("starting MCP server on stdio")
			return server.ServeStdio(newMCPServer(svc))
		},
	}
}

// newMCPServer registers the prompt tools on a new MCP server.
func newMCPServer(svc *service.PromptService) *server.MCPServer {
	s := server.NewMCPServer(mcpServerName, version, server.WithToolCapabilities(false))
	t := mcpTools{svc: svc}

	s.AddTool(mcp.NewTool("analyze_prompt",
		mcp.WithDescription("Score a prompt for clarity, specificity and effectiveness, detect missing context and evaluate its tone."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The prompt to analyze")),
		mcp.WithString("domain", mcp.Description("Force a domain instead of detecting it")),
		mcp.WithString("tone", mcp.Description("Declared tone to evaluate")),
		mcp.WithBoolean("enhanced", mcp.Description("Ask a configured LLM provider for a second opinion")),
	), t.analyze)

	s.AddTool(mcp.NewTool("optimize_prompt",
		mcp.WithDescription("Rewrite a prompt with prompt engineering techniques. In system mode the prompt is wrapped in a full system prompt."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The prompt to optimize")),
		mcp.WithString("mode", mcp.Enum(string(optimize.ModeNormal), string(optimize.ModeSystem)), mcp.Description("Optimization mode")),
		mcp.WithString("domain", mcp.Description("Force a domain instead of detecting it")),
		mcp.WithString("platform", mcp.Description("Target platform: chatgpt, claude, gemini, llama or generic")),
		mcp.WithBoolean("auto_techniques", mcp.Description("Apply the techniques the selector recommends")),
		mcp.WithBoolean("chain_of_thought", mcp.Description("Add step-by-step reasoning")),
		mcp.WithBoolean("persona", mcp.Description("Add a domain expert persona")),
		mcp.WithBoolean("enhanced", mcp.Description("Ask a configured LLM provider for a second opinion")),
	), t.optimize)

	s.AddTool(mcp.NewTool("apply_pattern",
		mcp.WithDescription("Render a domain prompt pattern from a prompt and variables."),
		mcp.WithString("pattern_id", mcp.Required(), mcp.Description("Pattern id, for example technical_explainer")),
		mcp.WithString("prompt", mcp.Description("Free text; 'Label: value' lines fill matching variables")),
		mcp.WithObject("variables", mcp.Description("Explicit variable values")),
	), t.applyPattern)

	return s
}

type mcpTools struct {
	svc *service.PromptService
}

func (t mcpTools) analyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := t.svc.Analyze(ctx, api.AnalyzeRequest{
		Prompt:   prompt,
		Domain:   req.GetString("domain", ""),
		Tone:     req.GetString("tone", ""),
		Enhanced: req.GetBool("enhanced", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(resp)
}

func (t mcpTools) optimize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := t.svc.Optimize(ctx, api.OptimizeRequest{
		Prompt: prompt,
		Domain: req.GetString("domain", ""),
		Mode:   req.GetString("mode", ""),
		Options: optimize.Options{
			AutoTechniques:    req.GetBool("auto_techniques", false),
			UseChainOfThought: req.GetBool("chain_of_thought", false),
			UsePersona:        req.GetBool("persona", false),
			Platform:          req.GetString("platform", ""),
		},
		Enhanced: req.GetBool("enhanced", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(resp)
}

func (t mcpTools) applyPattern(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("pattern_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vars, err := stringMap(req.GetArguments()["variables"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp := api.ApplyPattern(id, api.PatternApplyRequest{Prompt: req.GetString("prompt", ""), Variables: vars})
	if !resp.Applied {
		return mcp.NewToolResultError(resp.Error), nil
	}
	return mcp.NewToolResultText(resp.Output), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// stringMap converts a JSON object argument into string variables.
func stringMap(v any) (map[string]string, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("variables must be an object")
	}
	out := make(map[string]string, len(obj))
	for k, val := range obj {
		switch s := val.(type) {
		case string:
			out[k] = s
		default:
			out[k] = fmt.Sprint(s)
		}
	}
	return out, nil
}
