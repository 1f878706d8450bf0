package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/shouni/go-genart-kit/pkg/asset"
	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/raster"
)

var (
	// ErrNoImage は画像を持たない作品が渡された場合のエラーです。
	ErrNoImage = errors.New("保存する画像がありません")
	// ErrInvalidFileName はファイル名にパス区切りや親ディレクトリ参照が含まれる場合のエラーです。
	ErrInvalidFileName = errors.New("ファイル名が不正です")
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	Format    raster.Format
	// FileName は拡張子を除いたファイル名です。空なら識別子のスラッグを使います。
	FileName string
	// Index が1以上なら、ファイル名に連番を付けます（例: nebula_3.png）。
	Index int
	// RunID はサイドカーに記録する実行IDです。
	RunID string
	// SkipSidecar が true ならメタデータの JSON を書き出しません。
	SkipSidecar bool
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	ImagePath    string
	MetadataPath string
}

// sidecar はメタデータファイルの内容です。
type sidecar struct {
	domain.Metadata
	Image  string `json:"image"`
	Format string `json:"format"`
	RunID  string `json:"run_id,omitempty"`
}

// ArtworkPublisher は作品の画像とメタデータの永続化を担います。
type ArtworkPublisher struct {
	writer OutputWriter
}

// NewArtworkPublisher は ArtworkPublisher を生成します。
func NewArtworkPublisher(writer OutputWriter) *ArtworkPublisher {
	return &ArtworkPublisher{writer: writer}
}

// Publish は画像をエンコードして保存し、同じ名前の JSON にメタデータを書き出します。
func (p *ArtworkPublisher) Publish(ctx context.Context, art *domain.Artwork, opts Options) (PublishResult, error) {
	result := PublishResult{}
	if art == nil || art.Image == nil {
		return result, ErrNoImage
	}

	format := opts.Format
	if format == "" {
		format = raster.PNG
	}

	// 1. 出力パスの解決
	imagePath, err := p.resolveImagePath(art, opts, format)
	if err != nil {
		return result, err
	}

	// 2. 画像の保存
	var buf bytes.Buffer
	if err := raster.Encode(&buf, art.Image, format); err != nil {
		return result, err
	}
	if err := p.writer.Write(ctx, imagePath, &buf, format.MimeType()); err != nil {
		return result, fmt.Errorf("画像の書き込みに失敗しました %s: %w", imagePath, err)
	}
	result.ImagePath = imagePath
	slog.Info("画像を保存しました", "path", imagePath, "style", art.Metadata.StyleUsed)

	if opts.SkipSidecar {
		return result, nil
	}

	// 3. メタデータの書き出し
	metaPath := asset.SidecarPath(imagePath)
	body, err := json.MarshalIndent(sidecar{
		Metadata: art.Metadata,
		Image:    path.Base(imagePath),
		Format:   string(format),
		RunID:    opts.RunID,
	}, "", "  ")
	if err != nil {
		return result, fmt.Errorf("メタデータのシリアライズに失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, metaPath, bytes.NewReader(body), "application/json; charset=utf-8"); err != nil {
		return result, fmt.Errorf("メタデータの書き込みに失敗しました %s: %w", metaPath, err)
	}
	result.MetadataPath = metaPath
	return result, nil
}

func (p *ArtworkPublisher) resolveImagePath(art *domain.Artwork, opts Options, format raster.Format) (string, error) {
	name := opts.FileName
	if name == "" {
		name = asset.Slug(art.Metadata.Identifier)
	}
	if err := validateFileName(name); err != nil {
		return "", err
	}

	fullPath, err := asset.ResolveOutputPath(opts.OutputDir, name+format.Ext())
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}
	if opts.Index > 0 {
		fullPath, err = asset.GenerateIndexedPath(fullPath, opts.Index)
		if err != nil {
			return "", fmt.Errorf("連番付きパスの生成に失敗しました: %w", err)
		}
	}
	return fullPath, nil
}

// validateFileName は出力ディレクトリの外を指しうる名前を拒否します。
func validateFileName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "://") {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	return nil
}
