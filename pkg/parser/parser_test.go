package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-genart-kit/pkg/noise"
)

const sampleYAML = `
defaults:
  style: cosmic
  width: 400
  height: 300
  moon_phase: 0.25
  noise_policy: per-call
items:
  - identifier: QUANTUM DIGITAL CORE
    seed: 12345
  - identifier: nebula
    style: glitch
    mix: true
    effects:
      vignette: 0.5
  - identifier: "   "
`

func TestParse_YAML(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, m.Items, 2, "空の識別子は除外されます")

	reqs := m.Requests()
	require.Len(t, reqs, 2)

	first := reqs[0]
	assert.Equal(t, "QUANTUM DIGITAL CORE", first.Identifier)
	assert.Equal(t, "cosmic", first.Options.Style)
	assert.Equal(t, int64(12345), *first.Options.Seed)
	assert.Equal(t, 400, first.Options.Width)
	assert.Equal(t, 0.25, *first.Options.MoonPhase)
	assert.Equal(t, noise.PolicyPerCall, first.Options.NoisePolicy)

	second := reqs[1]
	assert.Equal(t, "glitch", second.Options.Style)
	assert.True(t, second.Options.Mix)
	require.NotNil(t, second.Options.Effects)
	assert.Equal(t, 0.5, second.Options.Effects.Vignette)
	assert.Nil(t, second.Options.Seed)
}

func TestParse_Text(t *testing.T) {
	input := "# 今夜の作品\nnebula\n\n  QUANTUM DIGITAL CORE  # コメント\n"
	m, err := Parse(strings.NewReader(input), FormatText)
	require.NoError(t, err)

	ids := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		ids = append(ids, it.Identifier)
	}
	assert.Equal(t, []string{"nebula", "QUANTUM DIGITAL CORE"}, ids)
}

func TestParse_Errors(t *testing.T) {
	t.Run("空のマニフェストはエラーであること", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""), FormatYAML)
		assert.ErrorIs(t, err, ErrEmptyManifest)

		_, err = Parse(strings.NewReader("# only comments\n"), FormatText)
		assert.ErrorIs(t, err, ErrEmptyManifest)
	})

	t.Run("壊れた YAML はエラーであること", func(t *testing.T) {
		_, err := Parse(strings.NewReader("items: [oops"), FormatYAML)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyManifest)
	})
}

func TestManifestParser_ParseFromPath(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))
	txtPath := filepath.Join(dir, "names.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("a\nb\n"), 0o644))

	p := NewManifestParser(nil)
	m, err := p.ParseFromPath(context.Background(), yamlPath)
	require.NoError(t, err)
	assert.Len(t, m.Items, 2)

	m, err = p.ParseFromPath(context.Background(), txtPath)
	require.NoError(t, err)
	assert.Len(t, m.Items, 2)

	_, err = p.ParseFromPath(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
