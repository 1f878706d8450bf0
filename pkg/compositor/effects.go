package compositor

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
)

// ErrDegenerateSurface はエフェクトを適用できないほど小さいサーフェスに対するエラーです。
var ErrDegenerateSurface = errors.New("compositor: degenerate surface")

const (
	bloomThreshold  = 0.7
	bloomSigmaRatio = 0.012
	maxChromaShift  = 8.0
	scanlinePeriod  = 4
	scanlineDarken  = 0.35
	vignetteStart   = 0.35
)

// Effects は各ポストエフェクトの強度 [0,1] です。0 のエフェクトは適用されません。
type Effects struct {
	Vignette  float64 `json:"vignette" yaml:"vignette"`
	Bloom     float64 `json:"bloom" yaml:"bloom"`
	Chromatic float64 `json:"chromatic" yaml:"chromatic"`
	Scanlines float64 `json:"scanlines" yaml:"scanlines"`
}

// Clamped は各強度を [0,1] に収めた Effects を返します。
func (e Effects) Clamped() Effects {
	return Effects{
		Vignette:  clamp01(e.Vignette),
		Bloom:     clamp01(e.Bloom),
		Chromatic: clamp01(e.Chromatic),
		Scanlines: clamp01(e.Scanlines),
	}
}

// Scale は全強度を k 倍した Effects を返します。
func (e Effects) Scale(k float64) Effects {
	return Effects{
		Vignette:  e.Vignette * k,
		Bloom:     e.Bloom * k,
		Chromatic: e.Chromatic * k,
		Scanlines: e.Scanlines * k,
	}.Clamped()
}

// Add は強度を成分ごとに足し合わせます。
func (e Effects) Add(o Effects) Effects {
	return Effects{
		Vignette:  e.Vignette + o.Vignette,
		Bloom:     e.Bloom + o.Bloom,
		Chromatic: e.Chromatic + o.Chromatic,
		Scanlines: e.Scanlines + o.Scanlines,
	}.Clamped()
}

// PostEffect は合成後の画像に適用するエフェクトです。
type PostEffect interface {
	Name() string
	Apply(img *image.RGBA) error
}

// Chain は強度が 0 より大きいエフェクトを適用順に返します。
func (e Effects) Chain() []PostEffect {
	e = e.Clamped()
	var chain []PostEffect
	if e.Bloom > 0 {
		chain = append(chain, bloom{intensity: e.Bloom})
	}
	if e.Chromatic > 0 {
		chain = append(chain, chromatic{intensity: e.Chromatic})
	}
	if e.Scanlines > 0 {
		chain = append(chain, scanlines{intensity: e.Scanlines})
	}
	if e.Vignette > 0 {
		chain = append(chain, vignette{intensity: e.Vignette})
	}
	return chain
}

// ApplyEffects は img にエフェクトを順に適用します。失敗したエフェクトはスキップし、
// その名前を返します。
func ApplyEffects(img *image.RGBA, e Effects) []string {
	var skipped []string
	for _, fx := range e.Chain() {
		if err := fx.Apply(img); err != nil {
			slog.Warn("ポストエフェクトをスキップしました", "effect", fx.Name(), "error", err)
			skipped = append(skipped, fx.Name())
		}
	}
	return skipped
}

func checkSurface(img *image.RGBA, minSize int) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrDegenerateSurface)
	}
	if img.Rect.Dx() < minSize || img.Rect.Dy() < minSize {
		return fmt.Errorf("%w: %v", ErrDegenerateSurface, img.Rect.Size())
	}
	return nil
}

type vignette struct{ intensity float64 }

func (vignette) Name() string { return "vignette" }

func (v vignette) Apply(img *image.RGBA) error {
	if err := checkSurface(img, 2); err != nil {
		return err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	cx, cy := float64(w)/2, float64(h)/2
	maxR := math.Hypot(cx, cy)

	for y := range h {
		for x := range w {
			r := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / maxR
			t := smoothstep(vignetteStart, 1, r)
			factor := 1 - v.intensity*t
			i := y*img.Stride + x*4
			for c := range 3 {
				img.Pix[i+c] = toByte(float64(img.Pix[i+c]) / 255 * factor)
			}
		}
	}
	return nil
}

// bloom は明るい画素を抽出してぼかし、スクリーン合成で重ねます。
type bloom struct{ intensity float64 }

func (bloom) Name() string { return "bloom" }

func (b bloom) Apply(img *image.RGBA) error {
	if err := checkSurface(img, 4); err != nil {
		return err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	bright := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			i := y*img.Stride + x*4
			o := y*bright.Stride + x*4
			r, g, bl := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
			lum := (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bl)) / 255
			bright.Pix[o+3] = 255
			if lum < bloomThreshold {
				continue
			}
			bright.Pix[o], bright.Pix[o+1], bright.Pix[o+2] = r, g, bl
		}
	}

	sigma := math.Max(1, float64(min(w, h))*bloomSigmaRatio)
	glow := imaging.Blur(bright, sigma)

	for y := range h {
		for x := range w {
			i := y*img.Stride + x*4
			o := y*glow.Stride + x*4
			for c := range 3 {
				cb := float64(img.Pix[i+c]) / 255
				cs := float64(glow.Pix[o+c]) / 255 * b.intensity
				img.Pix[i+c] = toByte(Screen.Channel(cb, cs))
			}
		}
	}
	return nil
}

// chromatic は赤と青のチャンネルを水平方向に逆向きにずらします。
type chromatic struct{ intensity float64 }

func (chromatic) Name() string { return "chromatic" }

func (c chromatic) Apply(img *image.RGBA) error {
	shift := max(1, int(math.Round(c.intensity*maxChromaShift)))
	if err := checkSurface(img, shift*2+1); err != nil {
		return err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	row := make([]uint8, w*4)
	for y := range h {
		line := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(row, line)
		for x := range w {
			rx := min(x+shift, w-1)
			bx := max(x-shift, 0)
			line[x*4] = row[rx*4]
			line[x*4+2] = row[bx*4+2]
		}
	}
	return nil
}

// scanlines は一定周期で水平の帯を暗くします。
type scanlines struct{ intensity float64 }

func (scanlines) Name() string { return "scanlines" }

func (s scanlines) Apply(img *image.RGBA) error {
	if err := checkSurface(img, scanlinePeriod); err != nil {
		return err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	factor := 1 - s.intensity*scanlineDarken

	for y := 0; y < h; y += scanlinePeriod {
		line := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(line); i += 4 {
			for c := range 3 {
				line[i+c] = toByte(float64(line[i+c]) / 255 * factor)
			}
		}
	}
	return nil
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
