package domain

import (
	"image"

	"github.com/shouni/go-genart-kit/pkg/dna"
)

// Artwork は生成された最終的なラスター画像とそのメタデータです。
// 生成後は変更しない前提で扱います。永続化は呼び出し側（publisher）の責務です。
type Artwork struct {
	Image    *image.RGBA
	Metadata Metadata
}

// Width は画像の幅を返します。
func (a *Artwork) Width() int {
	if a == nil || a.Image == nil {
		return 0
	}
	return a.Image.Rect.Dx()
}

// Height は画像の高さを返します。
func (a *Artwork) Height() int {
	if a == nil || a.Image == nil {
		return 0
	}
	return a.Image.Rect.Dy()
}

// Metadata は生成に使われたスタイル・パレット・シードなどの記録です。
type Metadata struct {
	Identifier  string             `json:"identifier"`
	StyleUsed   string             `json:"style_used"`
	PaletteUsed []string           `json:"palette_used"`
	SeedUsed    int64              `json:"seed_used"`
	Scheme      string             `json:"scheme"`
	Weights     map[string]float64 `json:"weights,omitempty"`
	Signals     Signals            `json:"signals"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Title       string             `json:"title,omitempty"`
	Skipped     []string           `json:"skipped_effects,omitempty"`
	DNA         dna.DNA            `json:"dna"`
}
