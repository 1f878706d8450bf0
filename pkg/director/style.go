package director

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/shouni/go-genart-kit/pkg/compositor"
	"github.com/shouni/go-genart-kit/pkg/dna"
	"github.com/shouni/go-genart-kit/pkg/palette"
	"github.com/shouni/go-genart-kit/pkg/shape"
	"github.com/shouni/go-genart-kit/pkg/stream"
)

const styleSalt = "style"

// Kind はスタイルファミリーの種類です。Auto は自動選択を表し、パイプライン内部には現れません。
type Kind int

const (
	Auto Kind = iota
	Cosmic
	Organic
	Geometric
	Glitch
	Ethereal
	Energetic

	numKinds
)

var kindNames = [numKinds]string{"auto", "cosmic", "organic", "geometric", "glitch", "ethereal", "energetic"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds は Auto を除く既知のスタイルを固定順で返します。
func Kinds() []Kind {
	return []Kind{Cosmic, Organic, Geometric, Glitch, Ethereal, Energetic}
}

// Names は既知のスタイル名を固定順で返します。
func Names() []string {
	kinds := Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}

// ParseKind は名前からスタイルを解決します。"auto" や未知の名前では false を返します。
func ParseKind(name string) (Kind, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds() {
		if k.String() == key {
			return k, true
		}
	}
	return Auto, false
}

// Range は閉区間 [Min,Max] です。
type Range struct {
	Min, Max float64
}

// Lerp は t ∈ [0,1] に対応する区間内の値を返します。
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// Sample はストリームから区間内の値を取り出します。
func (r Range) Sample(s *stream.Stream) float64 {
	return r.Lerp(s.Next())
}

// Flags はスタイルごとの任意の演出です。
type Flags struct {
	Glow       bool `json:"glow"`
	Refraction bool `json:"refraction"`
	Symmetry   bool `json:"symmetry"`
	Scanlines  bool `json:"scanlines"`
}

// Params はスタイルのパラメータ表です。値は固定で、実行時に変更されません。
type Params struct {
	Density     Range // 中景に置く形状の数
	Scale       Range // 形状の大きさ（キャンバス短辺に対する比）
	Shapes      []shape.Kind
	Spiral      shape.SpiralKind
	FlowLines   Range // 前景の流線の本数
	Metaballs   Range // 大気層のメタボールの数
	Blend       compositor.BlendMode
	Schemes     []palette.Scheme
	PaletteSize int
	Saturation  Range
	Lightness   Range
	Effects     compositor.Effects
	Flags       Flags
}

// Style はスタイルの種類とそのパラメータの組です。
type Style struct {
	Kind   Kind
	Params Params
}

// Name はスタイル名を返します。
func (s Style) Name() string {
	return s.Kind.String()
}

var styleTable = [numKinds]Params{
	Cosmic: {
		Density:     Range{6, 14},
		Scale:       Range{0.04, 0.16},
		Shapes:      []shape.Kind{shape.KindSpiral, shape.KindBlob, shape.KindSuperformula},
		Spiral:      shape.Logarithmic,
		FlowLines:   Range{20, 50},
		Metaballs:   Range{4, 8},
		Blend:       compositor.Screen,
		Schemes:     []palette.Scheme{palette.Complementary, palette.SplitComplementary},
		PaletteSize: 6,
		Saturation:  Range{55, 85},
		Lightness:   Range{40, 60},
		Effects:     compositor.Effects{Vignette: 0.6, Bloom: 0.5},
		Flags:       Flags{Glow: true},
	},
	Organic: {
		Density:     Range{8, 18},
		Scale:       Range{0.06, 0.2},
		Shapes:      []shape.Kind{shape.KindBlob, shape.KindMetaball},
		Spiral:      shape.Fermat,
		FlowLines:   Range{40, 90},
		Metaballs:   Range{5, 10},
		Blend:       compositor.SoftLight,
		Schemes:     []palette.Scheme{palette.Analogous, palette.Monochromatic},
		PaletteSize: 5,
		Saturation:  Range{35, 65},
		Lightness:   Range{40, 60},
		Effects:     compositor.Effects{Vignette: 0.4},
	},
	Geometric: {
		Density:     Range{10, 24},
		Scale:       Range{0.03, 0.12},
		Shapes:      []shape.Kind{shape.KindSuperformula, shape.KindSpiral},
		Spiral:      shape.Archimedean,
		FlowLines:   Range{0, 10},
		Metaballs:   Range{0, 2},
		Blend:       compositor.Overlay,
		Schemes:     []palette.Scheme{palette.Triadic, palette.Tetradic},
		PaletteSize: 6,
		Saturation:  Range{60, 90},
		Lightness:   Range{45, 60},
		Effects:     compositor.Effects{Vignette: 0.3},
		Flags:       Flags{Symmetry: true},
	},
	Glitch: {
		Density:     Range{12, 28},
		Scale:       Range{0.02, 0.1},
		Shapes:      []shape.Kind{shape.KindSuperformula, shape.KindFlow},
		Spiral:      shape.Archimedean,
		FlowLines:   Range{60, 120},
		Metaballs:   Range{0, 3},
		Blend:       compositor.Difference,
		Schemes:     []palette.Scheme{palette.Tetradic, palette.Complementary},
		PaletteSize: 7,
		Saturation:  Range{70, 100},
		Lightness:   Range{45, 65},
		Effects:     compositor.Effects{Chromatic: 0.7, Scanlines: 0.6, Vignette: 0.2},
		Flags:       Flags{Scanlines: true, Refraction: true},
	},
	Ethereal: {
		Density:     Range{4, 10},
		Scale:       Range{0.08, 0.24},
		Shapes:      []shape.Kind{shape.KindMetaball, shape.KindBlob},
		Spiral:      shape.Fermat,
		FlowLines:   Range{10, 30},
		Metaballs:   Range{6, 12},
		Blend:       compositor.Screen,
		Schemes:     []palette.Scheme{palette.Monochromatic, palette.Analogous},
		PaletteSize: 5,
		Saturation:  Range{25, 50},
		Lightness:   Range{50, 70},
		Effects:     compositor.Effects{Bloom: 0.7, Vignette: 0.4},
		Flags:       Flags{Glow: true},
	},
	Energetic: {
		Density:     Range{14, 30},
		Scale:       Range{0.03, 0.14},
		Shapes:      []shape.Kind{shape.KindSpiral, shape.KindSuperformula, shape.KindBlob},
		Spiral:      shape.Archimedean,
		FlowLines:   Range{50, 100},
		Metaballs:   Range{2, 5},
		Blend:       compositor.ColorDodge,
		Schemes:     []palette.Scheme{palette.Triadic, palette.SplitComplementary},
		PaletteSize: 8,
		Saturation:  Range{75, 100},
		Lightness:   Range{45, 60},
		Effects:     compositor.Effects{Bloom: 0.4, Chromatic: 0.2, Vignette: 0.3},
		Flags:       Flags{Glow: true, Refraction: true},
	},
}

// Lookup はスタイルのパラメータ表の複製を返します。Auto や未知の種類には Cosmic を返します。
func Lookup(k Kind) Style {
	if k <= Auto || k >= numKinds {
		k = Cosmic
	}
	p := styleTable[k]
	p.Shapes = slices.Clone(p.Shapes)
	p.Schemes = slices.Clone(p.Schemes)
	return Style{Kind: k, Params: p}
}

// StyleManager は識別子と文脈からスタイルを解決します。
type StyleManager struct {
	Epsilon  float64 // これ未満の重みのスタイルは描画しない
	Baseline float64 // 各スタイルの重みの初期値
}

// NewStyleManager は既定値で StyleManager を生成します。
func NewStyleManager() *StyleManager {
	return &StyleManager{
		Epsilon:  MixEpsilon,
		Baseline: mixBaseline,
	}
}

// AutoSelect は識別子のハッシュからスタイルを決定論的に選びます。
func (m *StyleManager) AutoSelect(identifier string) Kind {
	id := dna.Normalize(identifier)
	if id == "" {
		id = dna.FallbackIdentifier
	}
	kinds := Kinds()
	return kinds[dna.SeedFromText(id, styleSalt)%int64(len(kinds))]
}

// Select は要求されたスタイル名を解決し、未知の名前であれば警告を残して自動選択に切り替えます。
// 2番目の戻り値は要求が採用されたかどうかです。
func (m *StyleManager) Select(identifier, requested string) (Style, bool) {
	if k, ok := ParseKind(requested); ok {
		return Lookup(k), true
	}

	k := m.AutoSelect(identifier)
	name := strings.TrimSpace(requested)
	if name != "" && !strings.EqualFold(name, Auto.String()) {
		slog.Warn("未知のスタイル名のため自動選択に切り替えます", "requested", name, "selected", k)
		return Lookup(k), false
	}
	return Lookup(k), name == "" || strings.EqualFold(name, Auto.String())
}
