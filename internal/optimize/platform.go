package optimize

import "strings"

// Style is the register a platform responds best to.
type Style string

const (
	StyleConversational Style = "conversational"
	StyleFormal         Style = "formal"
	StyleTechnical      Style = "technical"
)

// Platform describes a target model family.
type Platform struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Style            Style  `json:"style" yaml:"style"`
	SupportsThinking bool   `json:"supportsThinking" yaml:"supportsThinking"`
}

const PlatformGeneric = "generic"

// DefaultPlatforms is the built-in table; overrides merge on top of it.
var DefaultPlatforms = map[string]Platform{
	"chatgpt":       {ID: "chatgpt", Name: "ChatGPT", Style: StyleConversational},
	"claude":        {ID: "claude", Name: "Claude", Style: StyleFormal, SupportsThinking: true},
	"gemini":        {ID: "gemini", Name: "Gemini", Style: StyleTechnical},
	"llama":         {ID: "llama", Name: "Llama", Style: StyleConversational},
	PlatformGeneric: {ID: PlatformGeneric, Name: "Generic"},
}

// MergePlatforms returns base with overrides applied. Zero fields in an
// override keep the base value except SupportsThinking, which is copied.
func MergePlatforms(base, overrides map[string]Platform) map[string]Platform {
	out := make(map[string]Platform, len(base)+len(overrides))
	for id, p := range base {
		out[id] = p
	}
	for id, o := range overrides {
		id = strings.ToLower(id)
		p := out[id]
		p.ID = id
		if o.Name != "" {
			p.Name = o.Name
		}
		if o.Style != "" {
			p.Style = o.Style
		}
		p.SupportsThinking = o.SupportsThinking
		out[id] = p
	}
	return out
}

func lookupPlatform(platforms map[string]Platform, id string) Platform {
	if p, ok := platforms[strings.ToLower(strings.TrimSpace(id))]; ok {
		return p
	}
	return platforms[PlatformGeneric]
}
