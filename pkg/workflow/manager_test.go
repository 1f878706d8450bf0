package workflow

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-genart-kit/pkg/config"
	"github.com/shouni/go-genart-kit/pkg/generator"
)

type stringReader map[string]string

func (s stringReader) Open(_ context.Context, path string) (io.ReadCloser, error) {
	body, ok := s[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestNew(t *testing.T) {
	t.Run("不正な並行数はエラーであること", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Concurrency = -1
		_, err := New(ManagerArgs{Config: cfg})
		assert.Error(t, err)
	})

	t.Run("Writer と Reader は省略できること", func(t *testing.T) {
		m, err := New(ManagerArgs{Config: config.DefaultConfig()})
		require.NoError(t, err)
		assert.NotNil(t, m.writer)
		assert.NotNil(t, m.reader)
		assert.Equal(t, config.DefaultOutputDir, m.Config().OutputDir)
	})
}

func TestManager_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.OutputDir = dir
	cfg.Width, cfg.Height = 24, 24

	reader := stringReader{
		"batch.yaml": "items:\n  - identifier: nebula\n  - identifier: comet\n    style: glitch\n",
	}
	m, err := New(ManagerArgs{Config: cfg, Reader: reader})
	require.NoError(t, err)

	gen, err := m.BuildGenerateRunner()
	require.NoError(t, err)
	res, meta, err := gen.RunAndSave(context.Background(), "nebula", generator.Options{}, "")
	require.NoError(t, err)
	assert.FileExists(t, res.ImagePath)
	assert.FileExists(t, res.MetadataPath)
	assert.Equal(t, filepath.Join(dir, "nebula.png"), res.ImagePath)
	assert.NotEmpty(t, meta.StyleUsed)

	p, err := m.BuildManifestParser()
	require.NoError(t, err)
	manifest, err := p.ParseFromPath(context.Background(), "batch.yaml")
	require.NoError(t, err)

	batch, err := m.BuildBatchRunner()
	require.NoError(t, err)
	report, err := batch.Run(context.Background(), manifest)
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assert.Len(t, report.Published, 2)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, m.service.Len(), "単体生成と同じ nebula はキャッシュを共有し、comet だけが増えます")
}
