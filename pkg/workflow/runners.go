package workflow

import (
	"github.com/shouni/go-genart-kit/pkg/generator"
	"github.com/shouni/go-genart-kit/pkg/parser"
	"github.com/shouni/go-genart-kit/pkg/runner"
)

// BuildGenerateRunner は、単体生成を担当する Runner を作成します。
func (m *Manager) BuildGenerateRunner() (GenerateRunner, error) {
	return runner.NewArtworkGenerateRunner(m.cfg, m.service, m.publisher), nil
}

// BuildBatchRunner は、マニフェストからの一括生成を担当する Runner を作成します。
func (m *Manager) BuildBatchRunner() (BatchRunner, error) {
	batch := generator.NewBatch(m.service, m.cfg.Concurrency, m.cfg.RateInterval)

	return runner.NewArtworkBatchRunner(m.cfg, batch, m.publisher), nil
}

// BuildManifestParser は、マニフェストの読み込みを担当する Parser を作成します。
func (m *Manager) BuildManifestParser() (parser.Parser, error) {
	return parser.NewManifestParser(m.reader), nil
}
