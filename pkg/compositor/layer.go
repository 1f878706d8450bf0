// Package compositor は深度ごとのレイヤーを個別のサーフェスに描画し、
// ブレンドモードに従って1枚に合成したうえでポストエフェクトを適用します。
package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/fogleman/gg"
)

// Pass は合成順に並ぶ描画パスです。
type Pass int

const (
	Background Pass = iota
	Atmosphere
	Midground
	Foreground
	FX // 屈折やグリッチなどの演出用
	Lighting

	numPasses
)

var passNames = [numPasses]string{"background", "atmosphere", "midground", "foreground", "effects", "lighting"}

func (p Pass) String() string {
	if p < 0 || p >= numPasses {
		return "unknown"
	}
	return passNames[p]
}

// Passes は合成順のパス一覧を返します。
func Passes() []Pass {
	out := make([]Pass, numPasses)
	for i := range out {
		out[i] = Pass(i)
	}
	return out
}

// パスごとの既定の不透明度
var passOpacity = [numPasses]float64{
	Background: 1,
	Atmosphere: 0.8,
	Midground:  1,
	Foreground: 0.95,
	FX:         0.85,
	Lighting:   0.6,
}

// Layer は1つのパスに対応するオフスクリーンのサーフェスです。
type Layer struct {
	Pass    Pass
	Image   *image.RGBA
	Context *gg.Context
	Blend   BlendMode
	Opacity float64
}

func newLayer(p Pass, w, h int, mode BlendMode) *Layer {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return &Layer{
		Pass:    p,
		Image:   img,
		Context: gg.NewContextForRGBA(img),
		Blend:   mode,
		Opacity: passOpacity[p],
	}
}

// Stack は1回の生成呼び出しの間だけ存在するレイヤーの集合です。
type Stack struct {
	width, height int
	layers        [numPasses]*Layer
}

// NewStack は全パスのレイヤーを生成します。背景と中景は Normal、大気とライティングは Screen で固定し、
// 前景とエフェクトのパスにはスタイルの宣言するブレンドモードを使います。
func NewStack(width, height int, mode BlendMode) *Stack {
	s := &Stack{width: width, height: height}
	for _, p := range Passes() {
		m := mode
		switch p {
		case Background, Midground:
			m = Normal
		case Atmosphere, Lighting:
			m = Screen
		}
		s.layers[p] = newLayer(p, width, height, m)
	}
	return s
}

// Layer はパスに対応するレイヤーを返します。
func (s *Stack) Layer(p Pass) *Layer {
	return s.layers[p]
}

// Context はパスに対応する描画コンテキストを返します。
func (s *Stack) Context(p Pass) *gg.Context {
	return s.layers[p].Context
}

// Size はサーフェスの幅と高さを返します。
func (s *Stack) Size() (int, int) {
	return s.width, s.height
}

// Composite は黒の不透明なキャンバスに全レイヤーを順に合成した画像を返します。
// 合成に失敗したレイヤーはログに残してスキップします。
func (s *Stack) Composite() *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	for _, l := range s.layers {
		if err := Blend(canvas, l.Image, l.Blend, l.Opacity); err != nil {
			slog.Warn("レイヤーの合成をスキップしました", "pass", l.Pass, "blend", l.Blend, "error", err)
		}
	}
	return canvas
}

// MirrorHorizontal は左半分を右半分へ左右反転して写し、左右対称の画像にします。
func MirrorHorizontal(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := range w / 2 {
			src := x * 4
			dst := (w - 1 - x) * 4
			copy(row[dst:dst+4], row[src:src+4])
		}
	}
}
