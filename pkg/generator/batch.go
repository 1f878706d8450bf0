package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shouni/go-genart-kit/pkg/domain"
)

// DefaultConcurrency はバッチ生成の既定の並列数です。
const DefaultConcurrency = 4

// Request はバッチ内の1件の生成リクエストです。
type Request struct {
	Identifier string
	Options    Options
}

// Result はバッチ内の1件の結果です。Err が nil でない場合 Artwork は nil です。
type Result struct {
	Index    int
	Request  Request
	Artwork  *domain.Artwork
	Metadata domain.Metadata
	Err      error
}

// Batch は複数のリクエストを並列数とレートを制限しながら生成します。
// 1件の失敗が他の件を止めることはありません。
type Batch struct {
	generator   ArtworkGenerator
	concurrency int
	interval    time.Duration
}

// NewBatch は Batch の新しいインスタンスを初期化します。interval が 0 以下ならレート制限を行いません。
func NewBatch(gen ArtworkGenerator, concurrency int, interval time.Duration) *Batch {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Batch{
		generator:   gen,
		concurrency: concurrency,
		interval:    interval,
	}
}

// Execute はリクエストを並列に処理し、入力と同じ順序で結果を返します。
// コンテキストがキャンセルされた場合は、それまでの結果とともにそのエラーを返します。
func (b *Batch) Execute(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.concurrency)

	var limiter *rate.Limiter
	if b.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(b.interval), 1)
	}

	for i, req := range reqs {
		results[i] = Result{Index: i, Request: req}
		eg.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(egCtx); err != nil {
					results[i].Err = fmt.Errorf("item %d (%q) のレート制限待機に失敗しました: %w", i, req.Identifier, err)
					return nil
				}
			}
			if err := egCtx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			art, meta, err := b.generateOne(req)
			if err != nil {
				slog.Error("バッチ項目の生成に失敗しました", "index", i, "identifier", req.Identifier, "error", err)
				results[i].Err = err
				return nil
			}
			results[i].Artwork = art
			results[i].Metadata = meta
			return nil
		})
	}

	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("バッチ生成が中断されました: %w", err)
	}
	return results, nil
}

// generateOne は1件を生成します。描画中のパニックはこの項目のエラーとして回収します。
func (b *Batch) generateOne(req Request) (art *domain.Artwork, meta domain.Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("item %q の生成中にパニックが発生しました: %v", req.Identifier, r)
		}
	}()
	art, meta = b.generator.Generate(req.Identifier, req.Options)
	return art, meta, nil
}
