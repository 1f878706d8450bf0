package shape

import (
	"math"

	"github.com/shouni/go-genart-kit/pkg/noise"
)

const minBlobPoints = 3

// BlobParams は有機的なブロブの形状パラメータです。
type BlobParams struct {
	Center     Point
	Radius     float64
	Points     int     // 制御点の数
	Perturb    float64 // 半径の揺らぎ率。0.3 なら ±30%
	NoiseScale float64 // ノイズ空間での円周のサンプリング半径
	Phase      float64 // ノイズ空間でのサンプリング位置のずらし量
}

// Blob は角度方向に等間隔な制御点を、ノイズで揺らした半径上に配置して返します。
func Blob(p BlobParams, field *noise.Field) []Point {
	k := max(p.Points, minBlobPoints)
	pts := make([]Point, k)
	for i := range k {
		theta := 2 * math.Pi * float64(i) / float64(k)
		n := field.Noise2D(
			p.Phase+math.Cos(theta)*p.NoiseScale,
			p.Phase+math.Sin(theta)*p.NoiseScale,
		)
		r := p.Radius * (1 + p.Perturb*(n*2-1))
		pts[i] = Polar(p.Center, r, theta)
	}
	return pts
}
