package generator

import (
	"context"
	"errors"
	"image"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-genart-kit/pkg/compositor"
	"github.com/shouni/go-genart-kit/pkg/director"
	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/noise"
	"github.com/shouni/go-genart-kit/pkg/palette"
)

func scenario(seed int64) Options {
	return Options{
		Seed:        domain.Ptr(seed),
		MoonPhase:   domain.Ptr(0.5),
		AudioEnergy: domain.Ptr(0.5),
		Width:       400,
		Height:      400,
	}
}

func TestEngine_ConcreteScenario(t *testing.T) {
	e := NewEngine()

	first, meta := e.Generate("QUANTUM DIGITAL CORE", scenario(12345))
	require.NotNil(t, first)
	require.NotNil(t, first.Image)

	t.Run("400x400 の RGBA を返すこと", func(t *testing.T) {
		assert.Equal(t, 400, first.Width())
		assert.Equal(t, 400, first.Height())
		assert.Equal(t, 400, meta.Width)
	})

	t.Run("既知のスタイルを報告すること", func(t *testing.T) {
		assert.Contains(t, director.Names(), meta.StyleUsed)
		assert.Equal(t, int64(12345), meta.SeedUsed)
	})

	t.Run("同じ引数なら同じ画像になること", func(t *testing.T) {
		again, meta2 := NewEngine().Generate("QUANTUM DIGITAL CORE", scenario(12345))
		assert.Equal(t, first.Image.Pix, again.Image.Pix)
		assert.Equal(t, meta, meta2)
	})

	t.Run("シードだけ変えると別の画像になること", func(t *testing.T) {
		other, otherMeta := e.Generate("QUANTUM DIGITAL CORE", scenario(54321))
		assert.NotEqual(t, first.Image.Pix, other.Image.Pix)
		assert.Equal(t, meta.StyleUsed, otherMeta.StyleUsed)
	})
}

func TestEngine_Fallbacks(t *testing.T) {
	e := NewEngine()
	small := Options{Width: 64, Height: 48}

	t.Run("未知のスタイルは自動選択になること", func(t *testing.T) {
		opts := small
		opts.Style = "vaporwave"
		_, meta := e.Generate("nebula", opts)
		_, auto := e.Generate("nebula", small)
		assert.Equal(t, auto.StyleUsed, meta.StyleUsed)
		assert.Contains(t, director.Names(), meta.StyleUsed)
	})

	t.Run("空の識別子は固定の代替値を使うこと", func(t *testing.T) {
		a, meta := e.Generate("   ", small)
		b, _ := e.Generate("", small)
		assert.Equal(t, "hexbloop", meta.Identifier)
		assert.Equal(t, a.Image.Pix, b.Image.Pix)
	})

	t.Run("時刻による代替は明示した場合だけであること", func(t *testing.T) {
		fixed := NewEngine()
		fixed.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
		opts := small
		opts.TimestampFallback = true
		_, meta := fixed.Generate("", opts)
		assert.Equal(t, "hexbloop-20260102T030405.000000000", meta.Identifier)
	})

	t.Run("サイズは既定値と範囲に丸められること", func(t *testing.T) {
		w, h := Options{}.Size()
		assert.Equal(t, DefaultWidth, w)
		assert.Equal(t, DefaultHeight, h)
		w, h = Options{Width: 1, Height: 99999}.Size()
		assert.Equal(t, MinSize, w)
		assert.Equal(t, MaxSize, h)
	})

	t.Run("範囲外のシグナルでも失敗しないこと", func(t *testing.T) {
		opts := small
		opts.AudioEnergy = domain.Ptr(42.0)
		opts.Tempo = domain.Ptr(-1.0)
		opts.Seed = domain.Ptr(int64(-5))
		art, meta := e.Generate("x", opts)
		require.NotNil(t, art.Image)
		assert.Equal(t, 1.0, meta.Signals.AudioEnergy)
		assert.Equal(t, domain.MinTempo, meta.Signals.Tempo)
		assert.Equal(t, int64(1), meta.SeedUsed)
	})
}

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestEngine_Palette(t *testing.T) {
	e := NewEngine()
	for _, id := range []string{"a", "QUANTUM DIGITAL CORE", "水面の月", "0xDEADBEEF"} {
		t.Run(id, func(t *testing.T) {
			_, meta := e.Generate(id, Options{Width: 32, Height: 32})
			assert.GreaterOrEqual(t, len(meta.PaletteUsed), palette.MinColors)
			assert.LessOrEqual(t, len(meta.PaletteUsed), palette.MaxColors)
			for _, h := range meta.PaletteUsed {
				assert.Regexp(t, hexColor, h)
			}
		})
	}

	t.Run("スキームの上書きが反映されること", func(t *testing.T) {
		_, meta := e.Generate("a", Options{Width: 32, Height: 32, Scheme: "triadic"})
		assert.Equal(t, "triadic", meta.Scheme)

		_, fallback := e.Generate("a", Options{Width: 32, Height: 32, Scheme: "plaid"})
		_, plain := e.Generate("a", Options{Width: 32, Height: 32})
		assert.Equal(t, plain.Scheme, fallback.Scheme)
	})
}

func TestEngine_Styles(t *testing.T) {
	e := NewEngine()
	for _, name := range director.Names() {
		t.Run(name, func(t *testing.T) {
			art, meta := e.Generate("style probe", Options{Style: name, Width: 96, Height: 96})
			assert.Equal(t, name, meta.StyleUsed)
			assert.Equal(t, 1.0, meta.Weights[name])
			assert.Equal(t, 96, art.Width())
		})
	}
}

func TestEngine_Mix(t *testing.T) {
	e := NewEngine()
	opts := Options{Mix: true, Width: 96, Height: 96, MoonPhase: domain.Ptr(0.0), Style: "glitch"}

	art, meta := e.Generate("nebula", opts)
	require.NotNil(t, art.Image)

	var sum float64
	for _, w := range meta.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, "cosmic", meta.StyleUsed)

	again, _ := e.Generate("nebula", opts)
	assert.Equal(t, art.Image.Pix, again.Image.Pix)
}

func TestEngine_EffectsAndNoise(t *testing.T) {
	e := NewEngine()

	t.Run("小さすぎる画像ではエフェクトをスキップすること", func(t *testing.T) {
		_, meta := e.Generate("tiny", Options{Width: 8, Height: 8, Effects: &compositor.Effects{Chromatic: 1}})
		assert.Equal(t, []string{"chromatic"}, meta.Skipped)
	})

	t.Run("エフェクトなしの上書きは何もスキップしないこと", func(t *testing.T) {
		_, meta := e.Generate("tiny", Options{Width: 8, Height: 8, Effects: &compositor.Effects{}})
		assert.Empty(t, meta.Skipped)
	})

	t.Run("呼び出しごとのノイズでも決定論的であること", func(t *testing.T) {
		opts := Options{Width: 64, Height: 64, NoisePolicy: noise.PolicyPerCall}
		a, _ := e.Generate("per call", opts)
		b, _ := e.Generate("per call", opts)
		assert.Equal(t, a.Image.Pix, b.Image.Pix)
	})

	t.Run("タイトルは画像に描き込まれること", func(t *testing.T) {
		plain, _ := e.Generate("titled", Options{Width: 200, Height: 100})
		titled, meta := e.Generate("titled", Options{Width: 200, Height: 100, Title: "HEXBLOOP"})
		assert.Equal(t, "HEXBLOOP", meta.Title)
		assert.NotEqual(t, plain.Image.Pix, titled.Image.Pix)
	})
}

func TestEngine_ConcurrentCalls(t *testing.T) {
	e := NewEngine()
	want, _ := e.Generate("parallel", Options{Width: 48, Height: 48})

	var wg sync.WaitGroup
	got := make([][]uint8, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			art, _ := e.Generate("parallel", Options{Width: 48, Height: 48})
			got[i] = art.Image.Pix
		}()
	}
	wg.Wait()
	for _, pix := range got {
		assert.Equal(t, want.Image.Pix, pix)
	}
}

func TestService(t *testing.T) {
	s := NewService(nil, time.Minute)
	opts := Options{Width: 32, Height: 32}

	a, _ := s.Generate("cached", opts)
	b, _ := s.Generate(" cached ", opts)
	assert.Same(t, a, b, "正規化後に同じ識別子はキャッシュを共有します")
	assert.Equal(t, 1, s.Len())

	c, _ := s.Generate("cached", Options{Width: 32, Height: 32, Seed: domain.Ptr(int64(7))})
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, s.Len())

	s.Flush()
	assert.Zero(t, s.Len())

	_, _ = s.Generate("", Options{Width: 16, Height: 16, TimestampFallback: true})
	assert.Zero(t, s.Len(), "時刻由来の識別子はキャッシュしません")
}

func TestRequestKey(t *testing.T) {
	k1, err := RequestKey("abc", Options{Seed: domain.Ptr(int64(3))})
	require.NoError(t, err)
	k2, err := RequestKey("abc", Options{Seed: domain.Ptr(int64(3))})
	require.NoError(t, err)
	k3, err := RequestKey("abc", Options{Seed: domain.Ptr(int64(4))})
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

type panicGenerator struct {
	inner ArtworkGenerator
}

func (p panicGenerator) Generate(identifier string, opts Options) (*domain.Artwork, domain.Metadata) {
	if identifier == "boom" {
		panic("broken renderer")
	}
	return p.inner.Generate(identifier, opts)
}

func TestBatch_Execute(t *testing.T) {
	reqs := []Request{
		{Identifier: "one", Options: Options{Width: 24, Height: 24}},
		{Identifier: "boom"},
		{Identifier: "three", Options: Options{Width: 24, Height: 24}},
	}

	t.Run("1件の失敗は他を止めないこと", func(t *testing.T) {
		b := NewBatch(panicGenerator{inner: NewEngine()}, 2, 0)
		results, err := b.Execute(context.Background(), reqs)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.NoError(t, results[0].Err)
		assert.Equal(t, "one", results[0].Metadata.Identifier)
		assert.Error(t, results[1].Err)
		assert.Nil(t, results[1].Artwork)
		assert.NoError(t, results[2].Err)
		assert.Equal(t, 2, results[2].Index)
	})

	t.Run("レート間隔は最初の件から適用されること", func(t *testing.T) {
		small := []Request{
			{Identifier: "a", Options: Options{Width: 8, Height: 8}},
			{Identifier: "b", Options: Options{Width: 8, Height: 8}},
			{Identifier: "c", Options: Options{Width: 8, Height: 8}},
		}
		start := time.Now()
		results, err := NewBatch(NewEngine(), len(small), 40*time.Millisecond).Execute(context.Background(), small)
		require.NoError(t, err)
		for _, r := range results {
			require.NoError(t, r.Err)
		}
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond, "3件目の開始は2間隔分待たされます")
	})

	t.Run("キャンセル済みのコンテキストではエラーを返すこと", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b := NewBatch(NewEngine(), 1, time.Millisecond)
		results, err := b.Execute(ctx, reqs[:1])
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Error(t, results[0].Err)
	})
}

func isBlank(img *image.RGBA) bool {
	for _, v := range img.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestFamilyRenderer_WeightBelowEpsilon(t *testing.T) {
	e := NewEngine()
	for _, k := range director.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			pl := e.prepare("nebula", Options{Style: k.String(), Width: 48, Height: 48})
			r := newFamilyRenderer(k)

			r.Render(pl.scene, director.MixEpsilon/2)
			for _, p := range compositor.Passes() {
				assert.True(t, isBlank(pl.scene.Stack.Layer(p).Image), "%s パスに描画されています", p)
			}

			r.Render(pl.scene, 1)
			drawn := false
			for _, p := range compositor.Passes() {
				if !isBlank(pl.scene.Stack.Layer(p).Image) {
					drawn = true
				}
			}
			assert.True(t, drawn, "重み 1 ではいずれかのパスに描画されます")
		})
	}
}

func TestEngine_SymmetryMirrorsMidground(t *testing.T) {
	const w, h = 64, 40
	e := NewEngine()

	pl := e.prepare("crystal lattice", Options{Style: "geometric", Width: w, Height: h})
	require.True(t, pl.style.Params.Flags.Symmetry)
	e.drawLayers(pl.scene, pl.weights, pl.style)

	img := pl.scene.Stack.Layer(compositor.Midground).Image
	require.False(t, isBlank(img))

	mismatches := 0
	for y := range h {
		for x := range w / 2 {
			if img.RGBAAt(x, y) != img.RGBAAt(w-1-x, y) {
				mismatches++
			}
		}
	}
	assert.Zero(t, mismatches, "ミッドグラウンドは左右対称になります")

	t.Run("対称フラグのないスタイルは反転しないこと", func(t *testing.T) {
		pl := e.prepare("crystal lattice", Options{Style: "cosmic", Width: w, Height: h})
		require.False(t, pl.style.Params.Flags.Symmetry)
		e.drawLayers(pl.scene, pl.weights, pl.style)

		mid := pl.scene.Stack.Layer(compositor.Midground).Image
		mirrored := image.NewRGBA(mid.Rect)
		copy(mirrored.Pix, mid.Pix)
		compositor.MirrorHorizontal(mirrored)
		assert.NotEqual(t, mid.Pix, mirrored.Pix)
	})
}
