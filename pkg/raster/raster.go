// Package raster は合成済みの画像に仕上げ（タイトルの透かし）を施し、PNG/JPEG へ書き出します。
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	DefaultJPEGQuality = 92
	titleScale         = 0.035 // 画像の高さに対する文字サイズ
	minTitleSize       = 10.0
	titleMargin        = 0.03
)

// ErrUnknownFormat は未対応の出力形式が指定された場合のエラーです。
var ErrUnknownFormat = errors.New("未対応の出力形式です")

// Format は出力画像の形式です。
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// ParseFormat は形式名または拡張子から Format を解決します。
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Ext はドット付きの拡張子を返します。
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// MimeType は Content-Type として使える MIME タイプを返します。
func (f Format) MimeType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

var titleFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

func titleFace(size float64) font.Face {
	f, err := titleFont()
	if err != nil {
		slog.Warn("タイトル用フォントの読み込みに失敗したため内蔵フォントを使います", "error", err)
		return basicfont.Face7x13
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

// Finalize は画像を不透明にし、title が空でなければ右下に透かしとして描き込みます。
// 入力画像は変更せず、新しい画像を返します。
func Finalize(img *image.RGBA, title string, accent color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)

	title = strings.TrimSpace(title)
	if title == "" || out.Rect.Empty() {
		return out
	}
	if accent == nil {
		accent = color.White
	}

	w, h := float64(b.Dx()), float64(b.Dy())
	dc := gg.NewContextForRGBA(out)
	dc.SetFontFace(titleFace(math.Max(h*titleScale, minTitleSize)))

	x := w * (1 - titleMargin)
	y := h * (1 - titleMargin)
	// 影を先に描いて背景に埋もれないようにする
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawStringAnchored(title, x+1, y+1, 1, 0)
	dc.SetColor(accent)
	dc.DrawStringAnchored(title, x, y, 1, 0)
	return out
}

// Encode は画像を指定形式で書き出します。
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG, "":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("PNG へのエンコードに失敗しました: %w", err)
		}
	case JPEG:
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: DefaultJPEGQuality}); err != nil {
			return fmt.Errorf("JPEG へのエンコードに失敗しました: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	return nil
}
