// Package shape は有機的なブロブ、スパイラル、スーパーフォーミュラ、メタボール、
// フローフィールドといったパラメトリックな形状生成器を提供します。
// すべての生成器は明示的なパラメータとストリーム／ノイズ場のみに依存し、暗黙の乱数状態を読みません。
package shape

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Tension は閉曲線を滑らかにつなぐ際の近傍への寄せ率です。
const Tension = 0.3

// Point は2次元の座標です。
type Point struct {
	X, Y float64
}

// Add は2点の和を返します。
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub は2点の差を返します。
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale は各成分を k 倍した点を返します。
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Polar は中心 c から角度 theta、半径 r の位置を返します。
func Polar(c Point, r, theta float64) Point {
	return Point{c.X + r*math.Cos(theta), c.Y + r*math.Sin(theta)}
}

// Kind は形状の種類です。
type Kind int

const (
	KindBlob Kind = iota + 1
	KindSpiral
	KindSuperformula
	KindMetaball
	KindFlow
)

func (k Kind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindSpiral:
		return "spiral"
	case KindSuperformula:
		return "superformula"
	case KindMetaball:
		return "metaball"
	case KindFlow:
		return "flow"
	default:
		return "unknown"
	}
}

// TraceClosedSmooth は点列を通る滑らかな閉曲線をパスとして追加します。
// 各区間は3次ベジェ曲線で、制御点は両隣の点への差分に tension を掛けて決めます。
func TraceClosedSmooth(dc *gg.Context, pts []Point, tension float64) {
	n := len(pts)
	if n < 3 {
		return
	}

	dc.NewSubPath()
	dc.MoveTo(pts[0].X, pts[0].Y)
	for i := range n {
		p0 := pts[(i-1+n)%n]
		p1 := pts[i]
		p2 := pts[(i+1)%n]
		p3 := pts[(i+2)%n]

		c1 := p1.Add(p2.Sub(p0).Scale(tension * 0.5))
		c2 := p2.Sub(p3.Sub(p1).Scale(tension * 0.5))
		dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
	}
	dc.ClosePath()
}

// TracePolyline は点列を折れ線としてパスに追加します。
func TracePolyline(dc *gg.Context, pts []Point) {
	if len(pts) < 2 {
		return
	}
	dc.NewSubPath()
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
}

// FillClosedSmooth は滑らかな閉曲線を指定色で塗りつぶします。
func FillClosedSmooth(dc *gg.Context, pts []Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	TraceClosedSmooth(dc, pts, Tension)
	dc.SetColor(c)
	dc.Fill()
}

// StrokeClosedSmooth は滑らかな閉曲線の輪郭を描きます。
func StrokeClosedSmooth(dc *gg.Context, pts []Point, width float64, c color.Color) {
	if len(pts) < 3 {
		return
	}
	TraceClosedSmooth(dc, pts, Tension)
	dc.SetLineWidth(width)
	dc.SetColor(c)
	dc.Stroke()
}

// StrokePolyline は折れ線を指定の太さと色で描きます。
func StrokePolyline(dc *gg.Context, pts []Point, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	TracePolyline(dc, pts)
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetColor(c)
	dc.Stroke()
}

// FillPolygon は点列を直線でつないだ多角形を塗りつぶします。
func FillPolygon(dc *gg.Context, pts []Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	TracePolyline(dc, pts)
	dc.ClosePath()
	dc.SetColor(c)
	dc.Fill()
}
