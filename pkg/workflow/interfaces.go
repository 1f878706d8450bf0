package workflow

import (
	"context"

	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/generator"
	"github.com/shouni/go-genart-kit/pkg/parser"
	"github.com/shouni/go-genart-kit/pkg/publisher"
	"github.com/shouni/go-genart-kit/pkg/runner"
)

// Workflow は、生成ワークフローの各工程を担当する Runner を構築するためのインターフェースを定義します。
type Workflow interface {
	BuildGenerateRunner() (GenerateRunner, error)
	BuildBatchRunner() (BatchRunner, error)
	BuildManifestParser() (parser.Parser, error)
}

// GenerateRunner は、1つの識別子から作品を生成し保存する責務を持ちます。
type GenerateRunner interface {
	Run(ctx context.Context, identifier string, opts generator.Options) (*domain.Artwork, error)
	RunAndSave(ctx context.Context, identifier string, opts generator.Options, fileName string) (publisher.PublishResult, domain.Metadata, error)
}

// BatchRunner は、マニフェストの全項目を並行に生成し保存する責務を持ちます。
type BatchRunner interface {
	Run(ctx context.Context, m *parser.Manifest) (runner.BatchReport, error)
}
