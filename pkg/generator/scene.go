package generator

import (
	"math"

	"github.com/fogleman/gg"

	"github.com/shouni/go-genart-kit/pkg/compositor"
	"github.com/shouni/go-genart-kit/pkg/director"
	"github.com/shouni/go-genart-kit/pkg/dna"
	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/noise"
	"github.com/shouni/go-genart-kit/pkg/palette"
	"github.com/shouni/go-genart-kit/pkg/shape"
	"github.com/shouni/go-genart-kit/pkg/stream"
)

// noise 空間でのずらし幅。共有テーブルでも識別子ごとに別の領域を読むために使う
const noisePhaseRange = 1000

// Scene は1回の生成呼び出しの間だけ存在する描画状態です。
// レンダラーはここからストリームやノイズ場を受け取り、暗黙のグローバル状態には触れません。
type Scene struct {
	Width, Height float64
	DNA           dna.DNA
	Signals       domain.Signals
	Palette       palette.Palette
	Field         *noise.Field
	Bank          *stream.Bank
	Stack         *compositor.Stack
	Layout        *director.LayoutManager
	Composition   director.Composition
	Focal         []shape.Point
	Phase         float64
}

// Short はキャンバスの短辺を返します。
func (sc *Scene) Short() float64 {
	return math.Min(sc.Width, sc.Height)
}

// Context はパスの描画コンテキストを返します。
func (sc *Scene) Context(p compositor.Pass) *gg.Context {
	return sc.Stack.Context(p)
}

// NoiseOffset は識別子ごとのノイズ座標のずらし量です。
func (sc *Scene) NoiseOffset() shape.Point {
	return shape.Point{X: sc.Phase, Y: sc.Phase * 0.61803}
}

// paintBackground は焦点を中心とした放射状の明暗と、低周波のタービュランスによるかすみを
// 背景レイヤーに直接書き込みます。
func paintBackground(sc *Scene) {
	img := sc.Stack.Layer(compositor.Background).Image
	w, h := img.Rect.Dx(), img.Rect.Dy()

	bg := sc.Palette.Background()
	deep := bg.Lighten(-bg.L * 0.5).RGBA()
	lit := bg.Lighten(10).RGBA()
	tint := sc.Palette.At(0).Lighten(-15).RGBA()

	focus := shape.Point{X: sc.Width / 2, Y: sc.Height / 2}
	if len(sc.Focal) > 0 {
		focus = sc.Focal[0]
	}
	maxR := math.Hypot(sc.Width, sc.Height)
	scale := 3 / sc.Short()
	haze := 0.15 + 0.25*sc.DNA.Energy
	off := sc.NoiseOffset()

	for y := range h {
		for x := range w {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			t := 1 - math.Min(math.Hypot(fx-focus.X, fy-focus.Y)/maxR*1.6, 1)
			n := sc.Field.Turbulence(fx*scale+off.X, fy*scale+off.Y, 4)
			k := n * n * haze

			i := y*img.Stride + x*4
			img.Pix[i] = mix(mix(deep.R, lit.R, t), tint.R, k)
			img.Pix[i+1] = mix(mix(deep.G, lit.G, t), tint.G, k)
			img.Pix[i+2] = mix(mix(deep.B, lit.B, t), tint.B, k)
			img.Pix[i+3] = 0xff
		}
	}
}

func mix(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	return uint8(math.Round(math.Min(math.Max(v, 0), 255)))
}
