package compositor

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

// ErrSizeMismatch は合成対象のサーフェスの大きさが一致しない場合のエラーです。
var ErrSizeMismatch = errors.New("compositor: surface size mismatch")

// BlendMode はレイヤー合成時のチャンネルごとの合成関数です。
type BlendMode int

const (
	Normal BlendMode = iota
	Screen
	Multiply
	Overlay
	SoftLight
	ColorDodge
	Difference
)

var blendNames = [...]string{
	Normal:     "normal",
	Screen:     "screen",
	Multiply:   "multiply",
	Overlay:    "overlay",
	SoftLight:  "soft-light",
	ColorDodge: "color-dodge",
	Difference: "difference",
}

func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendNames) {
		return "unknown"
	}
	return blendNames[m]
}

// ParseBlendMode は名前から BlendMode を解決します。
func ParseBlendMode(name string) (BlendMode, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, n := range blendNames {
		if n == key {
			return BlendMode(i), true
		}
	}
	return Normal, false
}

// Channel は背景 cb と前景 cs（いずれも [0,1] の非乗算値）を合成した値を返します。
func (m BlendMode) Channel(cb, cs float64) float64 {
	switch m {
	case Screen:
		return cb + cs - cb*cs
	case Multiply:
		return cb * cs
	case Overlay:
		return hardLight(cs, cb)
	case SoftLight:
		return softLight(cb, cs)
	case ColorDodge:
		switch {
		case cb == 0:
			return 0
		case cs >= 1:
			return 1
		default:
			return math.Min(1, cb/(1-cs))
		}
	case Difference:
		return math.Abs(cb - cs)
	default:
		return cs
	}
}

func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	return Screen.Channel(cb, 2*cs-1)
}

func softLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float64
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

// Blend は src を dst の上に mode と opacity で合成し、結果を dst に書き込みます。
// どちらも乗算済みアルファの RGBA として扱います。
func Blend(dst, src *image.RGBA, mode BlendMode, opacity float64) error {
	if dst == nil || src == nil {
		return fmt.Errorf("%w: nil surface", ErrSizeMismatch)
	}
	if dst.Rect.Dx() != src.Rect.Dx() || dst.Rect.Dy() != src.Rect.Dy() {
		return fmt.Errorf("%w: dst %v, src %v", ErrSizeMismatch, dst.Rect.Size(), src.Rect.Size())
	}
	if mode < 0 || int(mode) >= len(blendNames) {
		return fmt.Errorf("compositor: unsupported blend mode %d", mode)
	}
	opacity = clamp01(opacity)
	if opacity == 0 {
		return nil
	}

	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := range h {
		di := y * dst.Stride
		si := y * src.Stride
		for x := 0; x < w; x, di, si = x+1, di+4, si+4 {
			sA := src.Pix[si+3]
			if sA == 0 {
				continue
			}
			if mode == Normal && sA == 255 && opacity == 1 {
				copy(dst.Pix[di:di+4], src.Pix[si:si+4])
				continue
			}
			blendPixel(dst.Pix[di:di+4], src.Pix[si:si+4], mode, opacity)
		}
	}
	return nil
}

// blendPixel は W3C Compositing の一般式で1画素を合成します。
func blendPixel(d, s []uint8, mode BlendMode, opacity float64) {
	as := float64(s[3]) / 255 * opacity
	ab := float64(d[3]) / 255

	for c := range 3 {
		cs := float64(s[c]) / float64(s[3])
		cb := 0.0
		if d[3] > 0 {
			cb = float64(d[c]) / float64(d[3])
		}
		mixed := (1-ab)*cs + ab*mode.Channel(cb, cs)
		co := as*mixed + ab*cb*(1-as)
		d[c] = toByte(co)
	}
	d[3] = toByte(as + ab*(1-as))
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
