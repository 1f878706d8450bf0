package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-genart-kit/internal/config"
)

// runCmd はフラグの状態を初期化してからコマンドを実行するのだ。
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts = config.GenerateOptions{}
	verbose = false

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStylesCommand(t *testing.T) {
	out, err := runCmd(t, "styles")
	require.NoError(t, err)
	for _, name := range []string{"cosmic", "organic", "geometric", "glitch", "ethereal", "energetic"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "split-complementary")
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, "generate", "QUANTUM DIGITAL CORE",
		"--output-dir", dir, "--width", "32", "--height", "32",
		"--style", "geometric", "--seed", "7", "--moon-phase", "0.5")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "quantum-digital-core.png"), path)
	assert.FileExists(t, path)

	sidecar, err := os.ReadFile(strings.TrimSuffix(path, ".png") + ".json")
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), `"style_used": "geometric"`)
}

func TestGenerateCommand_Errors(t *testing.T) {
	t.Run("引数が多すぎるとエラーなのだ", func(t *testing.T) {
		_, err := runCmd(t, "generate", "a", "b")
		assert.Error(t, err)
	})

	t.Run("未知の出力形式はエラーなのだ", func(t *testing.T) {
		_, err := runCmd(t, "generate", "a", "--output-dir", t.TempDir(), "--format", "gif", "--width", "16", "--height", "16")
		assert.Error(t, err)
	})
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "batch.yaml")
	body := "defaults:\n  width: 16\n  height: 16\nitems:\n  - identifier: nebula\n  - identifier: comet\n    style: ethereal\n"
	require.NoError(t, os.WriteFile(manifest, []byte(body), 0o644))

	out, err := runCmd(t, "batch", "--manifest", manifest, "--output-dir", filepath.Join(dir, "out"), "--concurrency", "2")
	require.NoError(t, err)
	lines := strings.Fields(out)
	assert.Len(t, lines, 2)

	t.Run("マニフェストの指定は必須なのだ", func(t *testing.T) {
		_, err := runCmd(t, "batch")
		assert.Error(t, err)
	})
}
