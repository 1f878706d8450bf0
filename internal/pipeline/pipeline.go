package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-genart-kit/internal/builder"
	"github.com/shouni/go-genart-kit/internal/config"

	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/parser"
	"github.com/shouni/go-genart-kit/pkg/publisher"
	"github.com/shouni/go-genart-kit/pkg/runner"
)

// ErrPartialFailure はバッチの一部が失敗した場合のエラーなのだ。
var ErrPartialFailure = errors.New("一部の作品の生成または保存に失敗しました")

// GenerateResult は単体生成の結果なのだ。
type GenerateResult struct {
	Published publisher.PublishResult
	Metadata  domain.Metadata
}

// ExecuteGenerate は、1つの識別子から作品を生成して保存するのだ。
// changed は明示された CLI フラグを判定する関数なのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config, identifier string, changed func(string) bool) (GenerateResult, error) {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return GenerateResult{}, err
	}

	r, err := builder.BuildGenerateRunner(appCtx)
	if err != nil {
		return GenerateResult{}, err
	}

	opts := appCtx.Options.GeneratorOptions(changed)
	res, meta, err := r.RunAndSave(ctx, identifier, opts, appCtx.Options.FileName)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("作品の生成に失敗したのだ: %w", err)
	}

	slog.InfoContext(ctx, "作品が完成したのだ！", "image", res.ImagePath, "style", meta.StyleUsed)
	return GenerateResult{Published: res, Metadata: meta}, nil
}

// ExecuteBatch は、マニフェストに並んだ作品をまとめて生成するのだ。
// 失敗した項目があれば、レポートとともに ErrPartialFailure を返すのだ。
func ExecuteBatch(ctx context.Context, cfg *config.Config) (runner.BatchReport, error) {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return runner.BatchReport{}, err
	}

	p, err := builder.BuildManifestParser(appCtx)
	if err != nil {
		return runner.BatchReport{}, err
	}
	manifest, err := p.ParseFromPath(ctx, appCtx.Options.ManifestFile)
	if err != nil {
		return runner.BatchReport{}, fmt.Errorf("マニフェスト '%s' の読み込みに失敗したのだ: %w", appCtx.Options.ManifestFile, err)
	}

	r, err := builder.BuildBatchRunner(appCtx)
	if err != nil {
		return runner.BatchReport{}, err
	}

	slog.InfoContext(ctx, "バッチ生成を始めるのだ...", "items", len(manifest.Items))
	report, err := r.Run(ctx, manifest)
	if err != nil {
		return report, fmt.Errorf("バッチ生成が中断されたのだ: %w", err)
	}

	for _, f := range report.Failures {
		slog.WarnContext(ctx, "失敗した項目があるのだ", "index", f.Index, "identifier", f.Identifier, "error", f.Err)
	}
	if len(report.Failures) > 0 {
		return report, fmt.Errorf("%w: %d/%d 件", ErrPartialFailure, len(report.Failures), len(manifest.Items))
	}
	return report, nil
}

// setupAppContext は、ローカルの入出力を使ってアプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(cfg *config.Config) (*builder.AppContext, error) {
	return builder.NewAppContext(cfg, parser.LocalReader{}, publisher.NewLocalWriter())
}
