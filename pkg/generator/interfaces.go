package generator

import (
	"context"

	"github.com/shouni/go-genart-kit/pkg/director"
	"github.com/shouni/go-genart-kit/pkg/domain"
)

// Renderer は1つのスタイルファミリーの描画を担います。
// weight が director.MixEpsilon 未満の場合は何も描画してはいけません。
type Renderer interface {
	Kind() director.Kind
	Render(sc *Scene, weight float64)
}

// ArtworkGenerator は識別子とオプションから作品を生成します。Engine と Service が実装します。
type ArtworkGenerator interface {
	Generate(identifier string, opts Options) (*domain.Artwork, domain.Metadata)
}

// BatchGenerator は複数の生成リクエストをまとめて処理します。
type BatchGenerator interface {
	Execute(ctx context.Context, reqs []Request) ([]Result, error)
}
