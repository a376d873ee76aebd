package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/patterns"
)

func sampleResult(t *testing.T) *optimize.Result {
	t.Helper()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opt := optimize.New(optimize.WithClock(func() time.Time { return fixed }))
	res, err := opt.Optimize("Explain how a hash map handles collisions for junior developers.", "", optimize.Options{UseChainOfThought: true}, optimize.ModeNormal)
	require.NoError(t, err)
	return res
}

func TestRender(t *testing.T) {
	t.Parallel()
	res := sampleResult(t)

	t.Run("json", func(t *testing.T) {
		out, err := Render(res, "")
		require.NoError(t, err)
		var back optimize.Result
		require.NoError(t, json.Unmarshal([]byte(out), &back))
		assert.Equal(t, res.OptimizedPrompt, back.OptimizedPrompt)
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := Render(res, "md")
		require.NoError(t, err)
		assert.Contains(t, out, "# Optimized Prompt")
		assert.Contains(t, out, "## Analysis")
		assert.Contains(t, out, "Intent: ")
	})

	t.Run("text", func(t *testing.T) {
		out, err := Render(res, "TEXT")
		require.NoError(t, err)
		assert.True(t, len(out) > len(res.OptimizedPrompt))
		assert.Contains(t, out, "Mode: normal")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Render(res, "pdf")
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestRender_MarkdownNestedFence(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opt := optimize.New(optimize.WithClock(func() time.Time { return fixed }))
	prompt := "Review this Go code:\n```go\nfunc add(a, b int) int { return a - b }\n```"
	res, err := opt.Optimize(prompt, "", optimize.Options{}, optimize.ModeNormal)
	require.NoError(t, err)

	out, err := Render(res, "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "````\n"+prompt+"\n````\n")
	assert.NotContains(t, out, "`````")
}

func TestFence(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "```\nplain\n```\n", fence("plain\n"))
	assert.Equal(t, "````\na ``` b\n````\n", fence("a ``` b"))
	assert.Equal(t, "``````\n`````\n``````\n", fence("`````"))
	assert.Equal(t, "```\nuse `x` and ``y``\n```\n", fence("use `x` and ``y``"))
}

func TestContentType(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "text/markdown; charset=utf-8", ContentType(FormatMarkdown))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType(FormatText))
	assert.Equal(t, "application/json; charset=utf-8", ContentType(""))
}

func TestApplyPattern(t *testing.T) {
	t.Parallel()

	resp := ApplyPattern("technical_explainer", PatternApplyRequest{
		Prompt:    "consistent hashing",
		Variables: map[string]string{"concept": "consistent hashing", "audience": "product managers"},
	})
	require.True(t, resp.Applied, resp.Error)
	assert.Contains(t, resp.Output, "Explain consistent hashing to product managers.")
	assert.NotContains(t, resp.Output, "{{")

	unknown := ApplyPattern("limerick", PatternApplyRequest{Prompt: "keep me"})
	assert.False(t, unknown.Applied)
	assert.Equal(t, "keep me", unknown.Output)
	assert.Equal(t, patterns.ErrUnknownPattern.Error(), unknown.Error)
}

func TestPatterns(t *testing.T) {
	t.Parallel()
	list := Patterns()
	require.Len(t, list, len(patterns.List()))
	for _, p := range list {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, p.Pattern.Variables(), p.Variables)
	}
}
