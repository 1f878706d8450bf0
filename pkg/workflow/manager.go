package workflow

import (
	"fmt"

	"github.com/shouni/go-genart-kit/pkg/config"
	"github.com/shouni/go-genart-kit/pkg/generator"
	"github.com/shouni/go-genart-kit/pkg/parser"
	"github.com/shouni/go-genart-kit/pkg/publisher"
)

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
// 生成結果のキャッシュは Manager が構築した Runner 同士で共有されます。
type Manager struct {
	cfg       config.Config
	reader    parser.InputReader
	writer    publisher.OutputWriter
	service   *generator.Service
	publisher *publisher.ArtworkPublisher
}

// New は、設定を基に新しい Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	cfg := args.Config
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("並行数は0以上である必要があります: %d", cfg.Concurrency)
	}
	if cfg.RateInterval < 0 {
		return nil, fmt.Errorf("レート間隔は0以上である必要があります: %s", cfg.RateInterval)
	}

	reader := args.Reader
	if reader == nil {
		reader = parser.LocalReader{}
	}
	writer := args.Writer
	if writer == nil {
		writer = publisher.NewLocalWriter()
	}

	return &Manager{
		cfg:       cfg,
		reader:    reader,
		writer:    writer,
		service:   generator.NewService(generator.NewEngine(), cfg.CacheTTL),
		publisher: publisher.NewArtworkPublisher(writer),
	}, nil
}

// Config は Manager が使用している設定を返します。
func (m *Manager) Config() config.Config {
	return m.cfg
}
