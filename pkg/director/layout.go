package director

import (
	"math"

	"github.com/shouni/go-genart-kit/pkg/shape"
	"github.com/shouni/go-genart-kit/pkg/stream"
)

// Composition は画面構成の型です。
type Composition int

const (
	Thirds Composition = iota
	Center
	Diagonal
	Scatter
)

func (c Composition) String() string {
	switch c {
	case Thirds:
		return "thirds"
	case Center:
		return "center"
	case Diagonal:
		return "diagonal"
	case Scatter:
		return "scatter"
	default:
		return "unknown"
	}
}

// LayoutManager は構図の焦点と形状の配置を管理します。
type LayoutManager struct {
	Margin float64 // キャンバス短辺に対する余白の比
}

func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		Margin: 0.08,
	}
}

// Choose は構図ストリームから構図の型を選びます。
func (l *LayoutManager) Choose(s *stream.Stream) Composition {
	return stream.Pick(s, []Composition{Thirds, Center, Diagonal, Scatter})
}

// FocalPoints は構図の型に応じた n 個の焦点を返します。
func (l *LayoutManager) FocalPoints(c Composition, width, height float64, n int, s *stream.Stream) []shape.Point {
	if n < 1 {
		n = 1
	}
	margin := l.Margin * math.Min(width, height)
	pts := make([]shape.Point, 0, n)

	for i := 0; i < n; i++ {
		var p shape.Point
		switch c {
		case Thirds:
			// 三分割線の交点を巡回
			col := float64(1 + (i % 2))
			row := float64(1 + (i/2)%2)
			p = shape.Point{X: width * col / 3, Y: height * row / 3}
		case Center:
			r := math.Min(width, height) * 0.08 * float64(i)
			p = shape.Polar(shape.Point{X: width / 2, Y: height / 2}, r, s.Angle())
		case Diagonal:
			// 偶数・奇数で対角線の上下に振り分ける
			t := (float64(i) + 0.5) / float64(n)
			p = shape.Point{X: width * t, Y: height * t}
			if i%2 == 1 {
				p.Y = height * (1 - t)
			}
		default:
			p = shape.Point{X: s.Range(margin, width-margin), Y: s.Range(margin, height-margin)}
		}
		pts = append(pts, l.clamp(p, width, height, margin))
	}
	return pts
}

// Place は焦点の1つを選び、その周辺に配置位置を散らします。spread はキャンバス短辺に対する比です。
func (l *LayoutManager) Place(focal []shape.Point, width, height, spread float64, s *stream.Stream) shape.Point {
	margin := l.Margin * math.Min(width, height)
	if len(focal) == 0 {
		return shape.Point{X: width / 2, Y: height / 2}
	}
	f := stream.Pick(s, focal)
	// 一様乱数2つの和で中心寄りの分布にする
	r := (s.Next() + s.Next()) / 2 * spread * math.Min(width, height)
	return l.clamp(shape.Polar(f, r, s.Angle()), width, height, margin)
}

func (l *LayoutManager) clamp(p shape.Point, width, height, margin float64) shape.Point {
	if margin*2 >= width || margin*2 >= height {
		margin = 0
	}
	p.X = math.Min(math.Max(p.X, margin), width-margin)
	p.Y = math.Min(math.Max(p.Y, margin), height-margin)
	return p
}
