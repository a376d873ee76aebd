package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/llm"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
)

const sample = `
platforms:
  claude:
    style: technical
  mistral:
    id: mistral
    name: Le Chat
    style: formal
pre_check_thresholds:
  health_check_staleness: 15m
  max_error_rate: 0.3
providers:
  openai:
    model: gpt-4o
    quality_score: 9.5
strategies:
  fast:
    quality_weight: 0.1
    latency_weight: 0.8
    reliability_weight: 0.1
`

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, optimize.StyleTechnical, f.Platforms["claude"].Style)
	assert.Equal(t, "Le Chat", f.Platforms["mistral"].Name)
	assert.Equal(t, "gpt-4o", f.Model(llm.ProviderOpenAI))
	assert.Equal(t, "", f.Model(llm.ProviderGemini))

	r := f.Router()
	assert.Equal(t, 15*time.Minute, r.Thresholds.HealthCheckStaleness)
	assert.InDelta(t, 0.3, r.Thresholds.MaxErrorRate, 1e-9)
	assert.Equal(t, int64(5), r.Thresholds.MinRequestCount)
	assert.InDelta(t, 9.5, r.Providers[llm.ProviderOpenAI].QualityScore, 1e-9)
	assert.InDelta(t, 9.0, r.Providers[llm.ProviderOpenAI].CodingScore, 1e-9)
	assert.InDelta(t, 0.8, r.Strategies[llm.StrategyFast].LatencyWeight, 1e-9)
	assert.Contains(t, r.Strategies, llm.StrategyCoding)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	f, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, f.Platforms)
	assert.Equal(t, llm.DefaultRouterConfig(), f.Router())
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("platforms: [unterminated"))
	assert.Error(t, err)
}
