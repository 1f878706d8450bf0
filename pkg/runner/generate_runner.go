package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-genart-kit/pkg/config"
	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/generator"
	"github.com/shouni/go-genart-kit/pkg/publisher"
)

// ArtworkGenerateRunner は1件の作品を生成し、必要に応じて保存します。
type ArtworkGenerateRunner struct {
	cfg       config.Config
	generator generator.ArtworkGenerator
	publisher *publisher.ArtworkPublisher
}

// NewArtworkGenerateRunner は、依存関係を注入して初期化します。
func NewArtworkGenerateRunner(
	cfg config.Config,
	gen generator.ArtworkGenerator,
	pub *publisher.ArtworkPublisher,
) *ArtworkGenerateRunner {
	return &ArtworkGenerateRunner{
		cfg:       cfg,
		generator: gen,
		publisher: pub,
	}
}

// Run は作品を生成して返します。生成自体は失敗しませんが、キャンセル済みのコンテキストではエラーを返します。
func (r *ArtworkGenerateRunner) Run(ctx context.Context, identifier string, opts generator.Options) (*domain.Artwork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = r.cfg.ApplyDefaults(opts)

	art, meta := r.generator.Generate(identifier, opts)
	slog.InfoContext(ctx, "作品を生成しました",
		"identifier", meta.Identifier,
		"style", meta.StyleUsed,
		"seed", meta.SeedUsed,
		"palette", meta.PaletteUsed,
	)
	return art, nil
}

// RunAndSave は作品を生成し、設定された出力先へ画像とメタデータを保存します。
func (r *ArtworkGenerateRunner) RunAndSave(ctx context.Context, identifier string, opts generator.Options, fileName string) (publisher.PublishResult, domain.Metadata, error) {
	art, err := r.Run(ctx, identifier, opts)
	if err != nil {
		return publisher.PublishResult{}, domain.Metadata{}, err
	}

	res, err := r.publisher.Publish(ctx, art, publisher.Options{
		OutputDir: r.cfg.OutputDir,
		Format:    r.cfg.Format,
		FileName:  fileName,
	})
	if err != nil {
		return res, art.Metadata, fmt.Errorf("作品の保存に失敗しました: %w", err)
	}
	return res, art.Metadata, nil
}
