// Package optimize composes optimized prompts in system or normal mode and
// builds the optimization result.
package optimize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

// ComposerVersion changes whenever composed output changes for the same input.
const ComposerVersion = "4"

var ErrUnknownMode = errors.New("unknown mode")

// Mode selects the output shape.
type Mode string

const (
	ModeSystem Mode = "system"
	ModeNormal Mode = "normal"
)

// ParseMode accepts "system" or "normal"; empty means normal.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSystem:
		return ModeSystem, nil
	case ModeNormal, "":
		return ModeNormal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Options are the caller's technique switches.
type Options struct {
	UseChainOfThought    bool `json:"useChainOfThought" yaml:"useChainOfThought"`
	UsePersona           bool `json:"usePersona" yaml:"usePersona"`
	UseReAct             bool `json:"useReAct" yaml:"useReAct"`
	UseTreeOfThoughts    bool `json:"useTreeOfThoughts" yaml:"useTreeOfThoughts"`
	UseSelfConsistency   bool `json:"useSelfConsistency" yaml:"useSelfConsistency"`
	UseRolePlay          bool `json:"useRolePlay" yaml:"useRolePlay"`
	UseConstraints       bool `json:"useConstraints" yaml:"useConstraints"`
	UseFewShot           bool `json:"useFewShot" yaml:"useFewShot"`
	UseTokenOptimization bool `json:"useTokenOptimization" yaml:"useTokenOptimization"`

	// AutoTechniques applies the selector's choice in normal mode.
	AutoTechniques bool `json:"autoTechniques" yaml:"autoTechniques"`
	// TechniqueIDs are applied in the given order in normal mode.
	TechniqueIDs []string `json:"techniqueIds,omitempty" yaml:"techniqueIds,omitempty"`

	PatternID        string            `json:"patternId,omitempty" yaml:"patternId,omitempty"`
	PatternVariables map[string]string `json:"patternVariables,omitempty" yaml:"patternVariables,omitempty"`

	Platform string        `json:"platform,omitempty" yaml:"platform,omitempty"`
	Tone     analysis.Tone `json:"tone,omitempty" yaml:"tone,omitempty"`
}
