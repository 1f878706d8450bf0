package generator

import (
	"log/slog"
	"time"

	"github.com/shouni/go-genart-kit/pkg/compositor"
	"github.com/shouni/go-genart-kit/pkg/director"
	"github.com/shouni/go-genart-kit/pkg/dna"
	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/noise"
	"github.com/shouni/go-genart-kit/pkg/palette"
	"github.com/shouni/go-genart-kit/pkg/raster"
	"github.com/shouni/go-genart-kit/pkg/stream"
)

// 焦点の数の範囲
const (
	minFocalPoints = 1
	maxFocalPoints = 4
)

// Engine は識別子と文脈から作品を合成するコアです。
// 生成中にプロセス全体の可変状態へ書き込まないため、複数のゴルーチンから同時に呼び出せます。
type Engine struct {
	styles    *director.StyleManager
	layout    *director.LayoutManager
	renderers []Renderer
	now       func() time.Time
}

// NewEngine は全スタイルのレンダラーを登録した Engine を生成します。
func NewEngine() *Engine {
	kinds := director.Kinds()
	renderers := make([]Renderer, 0, len(kinds))
	for _, k := range kinds {
		renderers = append(renderers, newFamilyRenderer(k))
	}
	return &Engine{
		styles:    director.NewStyleManager(),
		layout:    director.NewLayoutManager(),
		renderers: renderers,
		now:       time.Now,
	}
}

// Generate は作品を生成します。どのような入力でも失敗せず、常に画像を返します。
// 同じ識別子とオプションからは、TimestampFallback を使わない限り同一の画像が得られます。
func (e *Engine) Generate(identifier string, opts Options) (*domain.Artwork, domain.Metadata) {
	pl := e.prepare(identifier, opts)
	sc := pl.scene

	slog.Debug("生成を開始します",
		"identifier", sc.DNA.Identifier,
		"style", pl.style.Name(),
		"scheme", pl.scheme,
		"composition", sc.Composition,
		"size", []int{pl.width, pl.height},
	)

	e.drawLayers(sc, pl.weights, pl.style)

	img := sc.Stack.Composite()
	skipped := compositor.ApplyEffects(img, e.resolveEffects(pl.weights, opts))
	final := raster.Finalize(img, opts.Title, sc.Palette.At(0).Lighten(20).RGBA())

	meta := domain.Metadata{
		Identifier:  sc.DNA.Identifier,
		StyleUsed:   pl.style.Name(),
		PaletteUsed: sc.Palette.Hex(),
		SeedUsed:    sc.DNA.Primary,
		Scheme:      string(pl.scheme),
		Weights:     pl.weights.Map(),
		Signals:     sc.Signals,
		Width:       pl.width,
		Height:      pl.height,
		Title:       opts.Title,
		Skipped:     skipped,
		DNA:         sc.DNA,
	}
	return &domain.Artwork{Image: final, Metadata: meta}, meta
}

// plan は1回の生成で使う DNA、スタイル、パレット、構図を決めて Scene にまとめたものです。
type plan struct {
	scene         *Scene
	weights       director.Weights
	style         director.Style
	scheme        palette.Scheme
	width, height int
}

// prepare は描画前に決まるものをすべて解決します。ストリームの消費順はここで固定されます。
func (e *Engine) prepare(identifier string, opts Options) plan {
	d := dna.Derive(e.resolveIdentifier(identifier, opts))
	if opts.Seed != nil {
		d = d.WithSeed(*opts.Seed)
	}
	signals := opts.ContextSignals().Resolve()

	weights, style := e.resolveStyle(d, signals, opts)
	width, height := opts.Size()
	bank := stream.NewBank(d)

	scheme := stream.Pick(bank.Color, style.Params.Schemes)
	if opts.Scheme != "" {
		if sc, ok := palette.ParseScheme(opts.Scheme); ok {
			scheme = sc
		} else {
			slog.Warn("未知の配色スキームのためスタイルの既定を使います", "requested", opts.Scheme, "scheme", scheme)
		}
	}
	// 月齢で色相をわずかに回す
	base := palette.NewColor(
		d.HueOffset+(signals.MoonPhase-domain.NeutralSignal)*20,
		style.Params.Saturation.Sample(bank.Color),
		style.Params.Lightness.Sample(bank.Color),
	)
	pal := palette.Generate(base, scheme, style.Params.PaletteSize, bank.Color)

	sc := &Scene{
		Width:   float64(width),
		Height:  float64(height),
		DNA:     d,
		Signals: signals,
		Palette: pal,
		Field:   noise.ForPolicy(opts.NoisePolicy, d.Primary),
		Bank:    bank,
		Stack:   compositor.NewStack(width, height, style.Params.Blend),
		Layout:  e.layout,
		Phase:   float64(d.Primary % noisePhaseRange),
	}
	sc.Composition = e.layout.Choose(bank.Composition)
	focalCount := minFocalPoints + bank.Composition.Intn(maxFocalPoints-minFocalPoints+1)
	sc.Focal = e.layout.FocalPoints(sc.Composition, sc.Width, sc.Height, focalCount, bank.Composition)

	return plan{scene: sc, weights: weights, style: style, scheme: scheme, width: width, height: height}
}

// drawLayers は背景と各スタイルのレンダラーをパスへ描き込みます。
// 主スタイルが対称フラグを持つ場合は最後にミッドグラウンドを左右反転で複製します。
func (e *Engine) drawLayers(sc *Scene, weights director.Weights, style director.Style) {
	paintBackground(sc)
	for _, r := range e.renderers {
		w := weights.Of(r.Kind())
		if w < e.styles.Epsilon {
			continue
		}
		r.Render(sc, w)
	}
	if style.Params.Flags.Symmetry {
		compositor.MirrorHorizontal(sc.Stack.Layer(compositor.Midground).Image)
	}
}

func (e *Engine) resolveIdentifier(identifier string, opts Options) string {
	if dna.Normalize(identifier) != "" || !opts.TimestampFallback {
		return identifier
	}
	return dna.FallbackIdentifier + "-" + e.now().UTC().Format("20060102T150405.000000000")
}

// resolveStyle は描画に使う重みと、パレットや合成方法を決める主スタイルを返します。
func (e *Engine) resolveStyle(d dna.DNA, signals domain.Signals, opts Options) (director.Weights, director.Style) {
	if opts.Mix {
		w := e.styles.Mix(d, signals)
		slog.Debug("スタイルを重み付きで混合します", "weights", w.Map())
		return w, director.Lookup(w.Dominant())
	}
	style, _ := e.styles.Select(d.Identifier, opts.Style)
	return director.Single(style.Kind), style
}

// resolveEffects は有効な各スタイルのエフェクト強度を重みで按分して合算します。
// Options.Effects が指定されていればそれを優先します。
func (e *Engine) resolveEffects(w director.Weights, opts Options) compositor.Effects {
	if opts.Effects != nil {
		return opts.Effects.Clamped()
	}
	var fx compositor.Effects
	for _, k := range w.Active(e.styles.Epsilon) {
		fx = fx.Add(director.Lookup(k).Params.Effects.Scale(w.Of(k)))
	}
	return fx.Clamped()
}
