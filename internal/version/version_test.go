package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
)

func TestGenerateVersionedCacheKey(t *testing.T) {
	t.Parallel()

	opts := optimize.Options{UseChainOfThought: true, Platform: "claude"}

	a, err := GenerateVersionedCacheKey("alchemy:optimize", "normal", "hello", opts)
	require.NoError(t, err)
	b, err := GenerateVersionedCacheKey("alchemy:optimize", "normal", "hello", opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "alchemy:optimize:normal:"))
	assert.True(t, strings.HasSuffix(a, "cv"+ComponentVersions.Catalog+"_pv"+ComponentVersions.Patterns+"_mv"+ComponentVersions.Composer))

	for _, other := range []struct {
		mode, prompt string
		opts         optimize.Options
	}{
		{"system", "hello", opts},
		{"normal", "hello!", opts},
		{"normal", "hello", optimize.Options{UseChainOfThought: true}},
	} {
		k, err := GenerateVersionedCacheKey("alchemy:optimize", other.mode, other.prompt, other.opts)
		require.NoError(t, err)
		assert.NotEqual(t, a, k)
	}

	_, err = GenerateVersionedCacheKey("p", "normal", "x", func() {})
	assert.Error(t, err)
}

func TestComponents(t *testing.T) {
	t.Parallel()
	c := Components()
	require.Len(t, c, 3)
	assert.Equal(t, optimize.ComposerVersion, c["composer"])
}
