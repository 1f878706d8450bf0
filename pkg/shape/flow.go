package shape

import (
	"math"

	"github.com/shouni/go-genart-kit/pkg/noise"
)

// FlowParams はフローフィールド上の流線追跡のパラメータです。
type FlowParams struct {
	Start         Point
	Steps         int
	StepLength    float64
	NoiseScale    float64 // キャンバス座標からノイズ座標への倍率
	Offset        Point   // ノイズ座標のずらし量
	Octaves       int
	AngleSpread   float64 // ノイズ値 [0,1] に掛ける回転数。1 なら一周
	Width, Height float64
}

// FlowTrace は点をノイズ由来の角度場に沿って Steps 回移流させ、その軌跡を返します。
// キャンバスの端では反対側へ折り返し、折り返しごとに折れ線を分割するため、
// 戻り値は複数の折れ線になることがあります。
func FlowTrace(p FlowParams, field *noise.Field) [][]Point {
	if p.Width <= 0 || p.Height <= 0 || p.Steps <= 0 {
		return nil
	}

	spread := p.AngleSpread
	if spread == 0 {
		spread = 1
	}

	var segments [][]Point
	pos := Point{wrap(p.Start.X, p.Width), wrap(p.Start.Y, p.Height)}
	current := []Point{pos}

	for range p.Steps {
		angle := field.Turbulence(pos.X*p.NoiseScale+p.Offset.X, pos.Y*p.NoiseScale+p.Offset.Y, p.Octaves) * 2 * math.Pi * spread
		next := Point{pos.X + math.Cos(angle)*p.StepLength, pos.Y + math.Sin(angle)*p.StepLength}

		wrapped := Point{wrap(next.X, p.Width), wrap(next.Y, p.Height)}
		if wrapped != next {
			if len(current) > 1 {
				segments = append(segments, current)
			}
			current = []Point{wrapped}
		} else {
			current = append(current, wrapped)
		}
		pos = wrapped
	}
	if len(current) > 1 {
		segments = append(segments, current)
	}
	return segments
}

func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v
}
