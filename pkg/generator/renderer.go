package generator

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/shouni/go-genart-kit/pkg/compositor"
	"github.com/shouni/go-genart-kit/pkg/director"
	"github.com/shouni/go-genart-kit/pkg/palette"
	"github.com/shouni/go-genart-kit/pkg/shape"
	"github.com/shouni/go-genart-kit/pkg/stream"
)

// familyRenderer はスタイルのパラメータ表だけを頼りに全パスを描画する汎用レンダラーです。
// スタイル間の違いは表の値だけで表現します。
type familyRenderer struct {
	style director.Style
}

func newFamilyRenderer(k director.Kind) *familyRenderer {
	return &familyRenderer{style: director.Lookup(k)}
}

func (r *familyRenderer) Kind() director.Kind {
	return r.style.Kind
}

// Render は weight に比例した量の形状を各パスへ描き込みます。
func (r *familyRenderer) Render(sc *Scene, weight float64) {
	if weight < director.MixEpsilon {
		return
	}
	r.atmosphere(sc, weight)
	r.midground(sc, weight)
	r.foreground(sc, weight)
	r.fx(sc, weight)
	r.lighting(sc, weight)
}

func scaledCount(rg director.Range, weight float64, s *stream.Stream) int {
	return max(int(math.Round(rg.Sample(s)*weight)), 0)
}

// atmosphere はぼかしで融合させたメタボールを大気層に置きます。
func (r *familyRenderer) atmosphere(sc *Scene, weight float64) {
	p := r.style.Params
	s := sc.Bank.Shape
	n := scaledCount(p.Metaballs, weight, s)
	if n == 0 {
		return
	}

	disks := make([]shape.Disk, n)
	for i := range disks {
		disks[i] = shape.Disk{
			Center: sc.Layout.Place(sc.Focal, sc.Width, sc.Height, 0.45, s),
			Radius: p.Scale.Sample(s) * sc.Short() * 1.6,
			Weight: s.Range(0.6, 1),
		}
	}
	col := sc.Palette.At(s.Intn(len(sc.Palette)))
	img := shape.Metaballs(shape.MetaballParams{
		Width:  int(sc.Width),
		Height: int(sc.Height),
		Disks:  disks,
		Color:  col.Alpha(0.6 * weight),
		Blur:   math.Max(2, sc.Short()*0.015),
	})
	sc.Context(compositor.Atmosphere).DrawImage(img, 0, 0)
}

// midground はスタイルの形状セットから主役となる形状を焦点の周りに配置します。
func (r *familyRenderer) midground(sc *Scene, weight float64) {
	p := r.style.Params
	s := sc.Bank.Shape
	n := scaledCount(p.Density, weight*(0.6+0.8*sc.DNA.Density), s)
	dc := sc.Context(compositor.Midground)

	for i := range n {
		kind := stream.Pick(s, p.Shapes)
		center := sc.Layout.Place(sc.Focal, sc.Width, sc.Height, 0.4, s)
		size := p.Scale.Sample(s) * sc.Short()
		col := sc.Palette.At(i + int(r.style.Kind))
		fill := col.Alpha(s.Range(0.55, 0.9))

		if p.Flags.Glow {
			halo(sc.Context(compositor.Lighting), center, size*2.2, col.Lighten(15), 0.35*weight)
		}
		r.drawShape(sc, dc, kind, center, size, fill, col)
	}
}

func (r *familyRenderer) drawShape(sc *Scene, dc *gg.Context, kind shape.Kind, center shape.Point, size float64, fill color.NRGBA, col palette.Color) {
	s := sc.Bank.Shape
	switch kind {
	case shape.KindBlob:
		pts := shape.Blob(shape.BlobParams{
			Center:     center,
			Radius:     size,
			Points:     6 + s.Intn(6),
			Perturb:    0.2 + 0.3*sc.DNA.Chaos,
			NoiseScale: 0.8 + s.Next(),
			Phase:      sc.Phase + s.Range(0, 100),
		}, sc.Field)
		shape.FillClosedSmooth(dc, pts, fill)

	case shape.KindSpiral:
		sp := shape.SpiralParams{
			Kind:         r.style.Params.Spiral,
			Center:       center,
			Scale:        1,
			Growth:       0.18,
			Turns:        float64(2 + s.Intn(4)),
			StepsPerTurn: 48,
			Rotation:     s.Angle(),
		}
		// 最外周の半径が size になるよう係数を合わせる
		if outer := sp.Radius(2 * math.Pi * sp.Turns); outer > 0 {
			sp.Scale = size / outer
		}
		shape.StrokePolyline(dc, shape.Spiral(sp), math.Max(1, size*0.03), fill)

	case shape.KindSuperformula:
		pts := shape.Superformula(shape.SuperformulaParams{
			Center:   center,
			Size:     size * 0.6,
			M:        float64(2 + s.Intn(8)),
			N1:       s.Range(0.3, 4),
			N2:       s.Range(0.3, 3),
			N3:       s.Range(0.3, 3),
			Steps:    shape.SuperformulaSteps,
			Rotation: s.Angle(),
		})
		shape.FillPolygon(dc, pts, col.Alpha(float64(fill.A)/255*0.5))
		if len(pts) > 0 {
			shape.StrokePolyline(dc, append(pts, pts[0]), math.Max(1, size*0.015), fill)
		}

	case shape.KindMetaball:
		// 中景では全面ぼかしを避け、柔らかい円を寄せ集めて代用する
		for range 3 {
			c := shape.Polar(center, s.Range(0, size*0.6), s.Angle())
			softDisk(dc, c, size*s.Range(0.4, 0.9), col, float64(fill.A)/255)
		}

	case shape.KindFlow:
		segs := shape.FlowTrace(shape.FlowParams{
			Start:      center,
			Steps:      30 + s.Intn(40),
			StepLength: sc.Short() * 0.004,
			NoiseScale: 3 / sc.Short(),
			Offset:     sc.NoiseOffset(),
			Octaves:    2,
			Width:      sc.Width,
			Height:     sc.Height,
		}, sc.Field)
		for _, seg := range segs {
			shape.StrokePolyline(dc, seg, math.Max(1, size*0.05), fill)
		}
	}
}

// foreground はノイズの角度場に沿った流線を前景に描きます。
func (r *familyRenderer) foreground(sc *Scene, weight float64) {
	p := r.style.Params
	s := sc.Bank.Shape
	n := scaledCount(p.FlowLines, weight, s)
	dc := sc.Context(compositor.Foreground)
	unit := sc.Short() / 600

	for i := range n {
		segs := shape.FlowTrace(shape.FlowParams{
			Start:       shape.Point{X: s.Range(0, sc.Width), Y: s.Range(0, sc.Height)},
			Steps:       40 + s.Intn(80),
			StepLength:  sc.Short() * 0.005,
			NoiseScale:  1.5 * (1 + 2*sc.DNA.Complexity) / sc.Short(),
			Offset:      sc.NoiseOffset(),
			Octaves:     3,
			AngleSpread: 1 + sc.DNA.Chaos,
			Width:       sc.Width,
			Height:      sc.Height,
		}, sc.Field)
		col := sc.Palette.At(i).Alpha(s.Range(0.25, 0.6) * math.Min(1, weight*1.5))
		width := s.Range(0.6, 2.2) * unit
		for _, seg := range segs {
			shape.StrokePolyline(dc, seg, width, col)
		}
	}
}

// fx は屈折（色をずらした複製）とグリッチの帯を描きます。該当するフラグがなければ何もしません。
func (r *familyRenderer) fx(sc *Scene, weight float64) {
	flags := r.style.Params.Flags
	if !flags.Refraction && !flags.Scanlines {
		return
	}
	s := sc.Bank.Shape
	dc := sc.Context(compositor.FX)

	if flags.Refraction {
		shift := sc.Short() * 0.012
		for i := range max(1, int(math.Round(3*weight))) {
			center := sc.Layout.Place(sc.Focal, sc.Width, sc.Height, 0.3, s)
			pts := shape.Blob(shape.BlobParams{
				Center:     center,
				Radius:     r.style.Params.Scale.Sample(s) * sc.Short() * 1.4,
				Points:     8,
				Perturb:    0.25,
				NoiseScale: 1.2,
				Phase:      sc.Phase + float64(i)*7.3,
			}, sc.Field)
			col := sc.Palette.At(i)
			shape.StrokeClosedSmooth(dc, pts, math.Max(1, shift*0.3), col.Rotate(180).Alpha(0.35))
			moved := make([]shape.Point, len(pts))
			for j, pt := range pts {
				moved[j] = pt.Add(shape.Point{X: shift, Y: -shift * 0.5})
			}
			shape.StrokeClosedSmooth(dc, moved, math.Max(1, shift*0.3), col.Rotate(120).Alpha(0.35))
		}
	}

	if flags.Scanlines {
		bars := max(1, int(math.Round(float64(4+s.Intn(8))*weight)))
		for j := range bars {
			y := s.Range(0, sc.Height)
			hgt := s.Range(1, math.Max(2, sc.Short()*0.02))
			x := s.Range(-sc.Width*0.2, sc.Width*0.2)
			dc.SetColor(sc.Palette.At(j).Alpha(0.4))
			dc.DrawRectangle(x, y, sc.Width, hgt)
			dc.Fill()
		}
	}
}

// lighting は主焦点に柔らかい光源を置きます。音のエネルギーが強いほど明るくなります。
func (r *familyRenderer) lighting(sc *Scene, weight float64) {
	if len(sc.Focal) == 0 {
		return
	}
	alpha := math.Min(1, 0.3*weight*(0.5+sc.Signals.AudioEnergy))
	halo(sc.Context(compositor.Lighting), sc.Focal[0], sc.Short()*0.6, sc.Palette.At(0).Lighten(25), alpha)
}

// halo は中心から外側へ透明になる放射状グラデーションの円を描きます。
func halo(dc *gg.Context, c shape.Point, radius float64, col palette.Color, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	g := gg.NewRadialGradient(c.X, c.Y, 0, c.X, c.Y, radius)
	g.AddColorStop(0, col.Alpha(alpha))
	g.AddColorStop(1, col.Alpha(0))
	dc.SetFillStyle(g)
	dc.DrawCircle(c.X, c.Y, radius)
	dc.Fill()
}

func softDisk(dc *gg.Context, c shape.Point, radius float64, col palette.Color, alpha float64) {
	g := gg.NewRadialGradient(c.X, c.Y, 0, c.X, c.Y, radius)
	g.AddColorStop(0, col.Alpha(alpha))
	g.AddColorStop(0.6, col.Alpha(alpha*0.6))
	g.AddColorStop(1, col.Alpha(0))
	dc.SetFillStyle(g)
	dc.DrawCircle(c.X, c.Y, radius)
	dc.Fill()
}
