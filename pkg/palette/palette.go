// Package palette は基準色と配色スキームから調和の取れたカラーパレットを生成します。
package palette

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/shouni/go-genart-kit/pkg/stream"
)

const (
	// MinColors はパレットの最小色数です。
	MinColors = 3
	// MaxColors はパレットの最大色数です。
	MaxColors = 12

	// HueJitter は DNA 由来の色相の揺らぎ幅（±度）です。
	HueJitter = 6.0
	// ToneJitter は彩度・明度の揺らぎ幅（±ポイント）です。
	ToneJitter = 5.0
)

// Color は HSL 表現の色です。H は [0,360)、S と L は [0,100] の範囲を取ります。
type Color struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// NewColor は範囲外の値を正規化して Color を生成します。
func NewColor(h, s, l float64) Color {
	return Color{H: wrapHue(h), S: clamp(s, 0, 100), L: clamp(l, 0, 100)}
}

func (c Color) colorful() colorful.Color {
	return colorful.Hsl(c.H, clamp(c.S, 0, 100)/100, clamp(c.L, 0, 100)/100).Clamped()
}

// RGBA は不透明な color.RGBA に変換します。
func (c Color) RGBA() color.RGBA {
	r, g, b := c.colorful().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Alpha は指定の不透明度 [0,1] を持つ color.NRGBA に変換します。
func (c Color) Alpha(a float64) color.NRGBA {
	r, g, b := c.colorful().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp(a, 0, 1) * 255))}
}

// Hex は "#rrggbb" 形式の文字列を返します。
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// Lighten は明度を delta ポイント変化させた色を返します。
func (c Color) Lighten(delta float64) Color {
	return NewColor(c.H, c.S, c.L+delta)
}

// Rotate は色相を deg 度回転させた色を返します。
func (c Color) Rotate(deg float64) Color {
	return NewColor(c.H+deg, c.S, c.L)
}

// Palette は順序付きの色列です。先頭は背景の基調色として扱います。
type Palette []Color

// Background は背景の基調色を返します。
func (p Palette) Background() Color {
	if len(p) == 0 {
		return Color{}
	}
	return p[0]
}

// At は i 番目の色を返します。範囲外のインデックスはアクセント色の中で循環させます。
func (p Palette) At(i int) Color {
	switch {
	case len(p) == 0:
		return Color{}
	case len(p) == 1:
		return p[0]
	}
	if i < 0 {
		i = -i
	}
	return p[1+i%(len(p)-1)]
}

// Hex は全色を "#rrggbb" 形式で返します。
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// Scheme は配色スキームの種類です。
type Scheme string

const (
	Complementary      Scheme = "complementary"
	Triadic            Scheme = "triadic"
	Tetradic           Scheme = "tetradic"
	Analogous          Scheme = "analogous"
	SplitComplementary Scheme = "split-complementary"
	Monochromatic      Scheme = "monochromatic"
)

// tone は基準色に対する色相オフセットと彩度・明度の倍率です。
type tone struct {
	hue, sat, light float64
}

// 各スキームの先頭は背景用の暗い基調色
var schemeTones = map[Scheme][]tone{
	Complementary: {
		{0, 1, 0.45}, {180, 1, 1}, {0, 0.8, 1.35}, {180, 0.85, 0.7},
	},
	Triadic: {
		{0, 0.9, 0.4}, {120, 1, 1}, {240, 1, 1}, {0, 1, 1.2},
	},
	Tetradic: {
		{0, 0.85, 0.4}, {90, 1, 1}, {180, 1, 1}, {270, 1, 1}, {0, 1, 1.25},
	},
	Analogous: {
		{0, 0.9, 0.4}, {-30, 1, 1}, {-15, 1, 1.1}, {15, 1, 1.1}, {30, 1, 1},
	},
	SplitComplementary: {
		{0, 0.9, 0.4}, {150, 1, 1}, {210, 1, 1}, {0, 1, 1.2},
	},
	Monochromatic: {
		{0, 0.8, 0.3}, {0, 0.9, 0.6}, {0, 1, 0.9}, {0, 1, 1.2}, {0, 0.7, 1.5},
	},
}

// Schemes は対応しているスキームを固定順で返します。
func Schemes() []Scheme {
	return []Scheme{Complementary, Triadic, Tetradic, Analogous, SplitComplementary, Monochromatic}
}

// ParseScheme は名前からスキームを解決します。"split_complementary" のような表記も受け付けます。
func ParseScheme(name string) (Scheme, bool) {
	key := Scheme(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	_, ok := schemeTones[key]
	return key, ok
}

// NativeCount はスキームが本来持つ色数を返します。
func (s Scheme) NativeCount() int {
	return len(schemeTones[s])
}

// Generate は基準色とスキームから count 色のパレットを生成します。
// jitter が nil でなければ各色に小さな揺らぎを加えます。count が本来の色数を超える場合は
// 最後の色を繰り返して埋め、未知のスキームは Complementary として扱います。
func Generate(base Color, scheme Scheme, count int, jitter *stream.Stream) Palette {
	tones, ok := schemeTones[scheme]
	if !ok {
		tones = schemeTones[Complementary]
	}
	count = min(max(count, MinColors), MaxColors)

	p := make(Palette, 0, count)
	for _, t := range tones[:min(count, len(tones))] {
		h := base.H + t.hue
		s := base.S * t.sat
		l := base.L * t.light
		if jitter != nil {
			h += jitter.Range(-HueJitter, HueJitter)
			s += jitter.Range(-ToneJitter, ToneJitter)
			l += jitter.Range(-ToneJitter, ToneJitter)
		}
		p = append(p, NewColor(h, s, l))
	}

	last := p[len(p)-1]
	for len(p) < count {
		p = append(p, last)
	}
	return p
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		return 0
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
