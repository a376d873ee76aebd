// In file: internal/version/version.go

// Package version centralizes the versions of the logic that shapes cached results.
//
// Cache keys embed these versions, so changing a technique scaffold, a pattern
// template or the composer output bumps a version and old entries stop matching.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/patterns"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/technique"
)

// ComponentVersions holds the version strings for each logical component.
var ComponentVersions = struct {
	// Catalog covers the technique catalog, selector and scaffold texts.
	Catalog string
	// Patterns covers the domain template library.
	Patterns string
	// Composer covers system and normal mode composition.
	Composer string
}{
	Catalog:  technique.CatalogVersion,
	Patterns: patterns.LibraryVersion,
	Composer: optimize.ComposerVersion,
}

// GenerateVersionedCacheKey builds a cache key from a prefix, the mode, the
// prompt and any options value. Options are hashed through their JSON form, so
// two equal option sets always produce the same key.
//
// Example output: "alchemy:optimize:normal:a1b2c3d4...:cv3_pv2_mv4"
func GenerateVersionedCacheKey(prefix, mode, prompt string, options any) (string, error) {
	opts, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("failed to encode options for cache key: %w", err)
	}

	hasher := sha256.New()
	hasher.Write([]byte(prompt))
	hasher.Write([]byte{0})
	hasher.Write(opts)
	hash := hex.EncodeToString(hasher.Sum(nil))

	versionString := fmt.Sprintf("cv%s_pv%s_mv%s",
		ComponentVersions.Catalog,
		ComponentVersions.Patterns,
		ComponentVersions.Composer,
	)
	return fmt.Sprintf("%s:%s:%s:%s", prefix, mode, hash, versionString), nil
}

// Components reports the component versions by name.
func Components() map[string]string {
	return map[string]string{
		"catalog":  ComponentVersions.Catalog,
		"patterns": ComponentVersions.Patterns,
		"composer": ComponentVersions.Composer,
	}
}
