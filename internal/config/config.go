// Package config reads the optional YAML file shared by the gateway and the
// CLI: platform overrides and the provider router settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/llm"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "config.yaml"

// File is the on-disk layout. Router keys sit at the top level:
//
//	platforms:
//	  claude: {style: technical}
//	pre_check_thresholds:
//	  max_error_rate: 0.3
//	providers:
//	  openai: {model: gpt-4o, quality_score: 9.5}
//	strategies:
//	  fast: {quality_weight: 0.1, latency_weight: 0.8, reliability_weight: 0.1}
type File struct {
	Platforms        map[string]optimize.Platform `yaml:"platforms"`
	llm.RouterConfig `yaml:",inline"`
}

// Load parses path. A missing file is not an error and yields an empty File.
func Load(path string) (*File, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a config document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &f, nil
}

// Router returns the router config with the file's values laid over the
// defaults. Providers and strategies merge per key; zero thresholds keep the
// default.
func (f *File) Router() *llm.RouterConfig {
	out := llm.DefaultRouterConfig()
	if f == nil {
		return out
	}
	t := f.Thresholds
	if t.HealthCheckStaleness > 0 {
		out.Thresholds.HealthCheckStaleness = t.HealthCheckStaleness
	}
	if t.MaxErrorRate > 0 {
		out.Thresholds.MaxErrorRate = t.MaxErrorRate
	}
	if t.MinRequestCount > 0 {
		out.Thresholds.MinRequestCount = t.MinRequestCount
	}
	for name, p := range f.Providers {
		base := out.Providers[name]
		if p.Model != "" {
			base.Model = p.Model
		}
		if p.QualityScore > 0 {
			base.QualityScore = p.QualityScore
		}
		if p.CodingScore > 0 {
			base.CodingScore = p.CodingScore
		}
		out.Providers[name] = base
	}
	for name, s := range f.Strategies {
		out.Strategies[name] = s
	}
	return out
}

// Model returns the configured model for a provider, or "" for the client
// default.
func (f *File) Model(provider string) string {
	if f == nil {
		return ""
	}
	return f.Providers[provider].Model
}
