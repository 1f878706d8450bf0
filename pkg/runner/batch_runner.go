package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shouni/go-genart-kit/pkg/asset"
	"github.com/shouni/go-genart-kit/pkg/config"
	"github.com/shouni/go-genart-kit/pkg/generator"
	"github.com/shouni/go-genart-kit/pkg/parser"
	"github.com/shouni/go-genart-kit/pkg/publisher"
)

// Failure はバッチ内で失敗した1件の情報です。
type Failure struct {
	Index      int
	Identifier string
	Err        error
}

// BatchReport はバッチ実行の結果です。
type BatchReport struct {
	RunID     string
	Published []publisher.PublishResult
	Failures  []Failure
}

// ArtworkBatchRunner はマニフェストの全項目を生成して保存します。
type ArtworkBatchRunner struct {
	cfg       config.Config
	batch     generator.BatchGenerator
	publisher *publisher.ArtworkPublisher
	newRunID  func() string
}

// NewArtworkBatchRunner は、依存関係を注入して初期化します。
func NewArtworkBatchRunner(
	cfg config.Config,
	batch generator.BatchGenerator,
	pub *publisher.ArtworkPublisher,
) *ArtworkBatchRunner {
	return &ArtworkBatchRunner{
		cfg:       cfg,
		batch:     batch,
		publisher: pub,
		newRunID:  uuid.NewString,
	}
}

// Run はマニフェストを生成・保存します。個々の失敗は BatchReport.Failures に集め、処理は続行します。
// コンテキストが中断された場合のみエラーを返します。
func (r *ArtworkBatchRunner) Run(ctx context.Context, m *parser.Manifest) (BatchReport, error) {
	report := BatchReport{RunID: r.newRunID()}
	logger := slog.With("run_id", report.RunID)

	items := m.Resolved()
	reqs := make([]generator.Request, len(items))
	for i, it := range items {
		reqs[i] = generator.Request{Identifier: it.Identifier, Options: r.cfg.ApplyDefaults(it.Options())}
	}
	logger.InfoContext(ctx, "バッチ生成を開始します", "items", len(reqs))

	results, err := r.batch.Execute(ctx, reqs)
	if err != nil {
		return report, err
	}

	names := fileNames(items)
	for i, res := range results {
		if res.Err != nil {
			report.Failures = append(report.Failures, Failure{Index: i, Identifier: res.Request.Identifier, Err: res.Err})
			continue
		}
		pub, err := r.publisher.Publish(ctx, res.Artwork, publisher.Options{
			OutputDir: r.cfg.OutputDir,
			Format:    r.cfg.Format,
			FileName:  names[i].name,
			Index:     names[i].index,
			RunID:     report.RunID,
		})
		if err != nil {
			logger.ErrorContext(ctx, "保存に失敗しました", "index", i, "identifier", res.Request.Identifier, "error", err)
			report.Failures = append(report.Failures, Failure{Index: i, Identifier: res.Request.Identifier, Err: err})
			continue
		}
		report.Published = append(report.Published, pub)
	}

	logger.InfoContext(ctx, "バッチ生成が完了しました",
		"published", len(report.Published),
		"failed", len(report.Failures),
	)
	return report, nil
}

type fileName struct {
	name  string
	index int // 0 なら連番なし
}

// fileNames は各項目の保存名を決めます。同じ名前が複数ある場合は出現順に連番を付けます。
func fileNames(items []parser.Item) []fileName {
	out := make([]fileName, len(items))
	counts := make(map[string]int, len(items))
	for i, it := range items {
		name := it.FileName
		if name == "" {
			name = asset.Slug(it.Identifier)
		}
		out[i].name = name
		counts[name]++
	}

	seen := make(map[string]int, len(counts))
	for i := range out {
		if counts[out[i].name] > 1 {
			seen[out[i].name]++
			out[i].index = seen[out[i].name]
		}
	}
	return out
}

// Error は失敗の内容を1行で返します。
func (f Failure) Error() string {
	return fmt.Sprintf("item %d (%q): %v", f.Index, f.Identifier, f.Err)
}
