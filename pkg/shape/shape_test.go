package shape

import (
	"image/color"
	"math"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-genart-kit/pkg/noise"
)

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestBlob(t *testing.T) {
	field := noise.New(3)
	center := Point{100, 100}
	params := BlobParams{Center: center, Radius: 50, Points: 12, Perturb: 0.3, NoiseScale: 1.5, Phase: 4.2}

	pts := Blob(params, field)
	require.Len(t, pts, 12)
	for _, p := range pts {
		d := distance(p, center)
		assert.GreaterOrEqual(t, d, 50*0.7-1e-9)
		assert.LessOrEqual(t, d, 50*1.3+1e-9)
	}

	assert.Equal(t, pts, Blob(params, field), "同じ入力からは同じ輪郭が得られるはずです")
	assert.Len(t, Blob(BlobParams{Radius: 10, Points: 1}, field), minBlobPoints)
}

func TestSpiral(t *testing.T) {
	t.Run("点の数は周回数と1周あたりの分割数の積になること", func(t *testing.T) {
		pts := Spiral(SpiralParams{Kind: Archimedean, Scale: 2, Turns: 3, StepsPerTurn: 40})
		assert.Len(t, pts, 121)
	})

	t.Run("各半径関数が定義どおりであること", func(t *testing.T) {
		tt := 4.0
		assert.InDelta(t, 8, SpiralParams{Kind: Archimedean, Scale: 2}.Radius(tt), 1e-9)
		assert.InDelta(t, 2*math.Exp(0.5*tt), SpiralParams{Kind: Logarithmic, Scale: 2, Growth: 0.5}.Radius(tt), 1e-9)
		assert.InDelta(t, 4, SpiralParams{Kind: Fermat, Scale: 2}.Radius(tt), 1e-9)
	})

	t.Run("アルキメデス螺旋の半径は単調に増えること", func(t *testing.T) {
		c := Point{0, 0}
		pts := Spiral(SpiralParams{Kind: Archimedean, Center: c, Scale: 1, Turns: 2, StepsPerTurn: 30})
		for i := 1; i < len(pts); i++ {
			assert.GreaterOrEqual(t, distance(pts[i], c)+1e-9, distance(pts[i-1], c))
		}
	})

	assert.Equal(t, "fermat", Fermat.String())
}

func TestSuperformula(t *testing.T) {
	t.Run("m=0 で指数が等しければ円になること", func(t *testing.T) {
		c := Point{50, 50}
		pts := Superformula(SuperformulaParams{Center: c, Size: 20, M: 0, N1: 1, N2: 1, N3: 1})
		require.Len(t, pts, SuperformulaSteps)
		for _, p := range pts {
			assert.InDelta(t, 20, distance(p, c), 1e-9)
		}
	})

	t.Run("退化した指数でも有限の値を保つこと", func(t *testing.T) {
		for _, n1 := range []float64{0, 1e-9, -0.5} {
			for i := 0; i < 360; i++ {
				r := SuperformulaRadius(float64(i)*math.Pi/180, 7, n1, 40, 40)
				assert.False(t, math.IsNaN(r) || math.IsInf(r, 0))
				assert.LessOrEqual(t, r, maxSuperformulaRadius)
			}
		}
	})
}

func TestFlowTrace(t *testing.T) {
	field := noise.Shared()
	params := FlowParams{
		Start:      Point{5, 5},
		Steps:      400,
		StepLength: 3,
		NoiseScale: 0.01,
		Octaves:    2,
		Width:      60,
		Height:     60,
	}

	segments := FlowTrace(params, field)
	require.NotEmpty(t, segments)

	total := 0
	for _, seg := range segments {
		assert.GreaterOrEqual(t, len(seg), 2)
		for _, p := range seg {
			assert.GreaterOrEqual(t, p.X, 0.0)
			assert.Less(t, p.X, 60.0)
			assert.GreaterOrEqual(t, p.Y, 0.0)
			assert.Less(t, p.Y, 60.0)
		}
		for i := 1; i < len(seg); i++ {
			assert.InDelta(t, 3, distance(seg[i], seg[i-1]), 1e-6, "折り返しをまたぐ線分があってはいけません")
		}
		total += len(seg)
	}
	assert.Greater(t, total, 1)
	assert.Nil(t, FlowTrace(FlowParams{Steps: 10}, field))
}

func TestMetaballs(t *testing.T) {
	img := Metaballs(MetaballParams{
		Width:  64,
		Height: 64,
		Disks: []Disk{
			{Center: Point{24, 32}, Radius: 16, Weight: 1},
			{Center: Point{40, 32}, Radius: 16, Weight: 1},
		},
		Color: color.NRGBA{R: 200, G: 40, B: 90, A: 255},
		Blur:  3,
	})

	require.Equal(t, 64, img.Bounds().Dx())
	center := img.NRGBAAt(32, 32)
	corner := img.NRGBAAt(0, 0)
	assert.Equal(t, uint8(200), center.R)
	assert.Greater(t, center.A, corner.A, "融合した中心は空の隅より不透明なはずです")
}

func TestDrawHelpers(t *testing.T) {
	dc := gg.NewContext(40, 40)
	pts := Blob(BlobParams{Center: Point{20, 20}, Radius: 10, Points: 8}, noise.Shared())
	FillClosedSmooth(dc, pts, color.White)

	img := dc.Image()
	_, _, _, a := img.At(20, 20).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	_, _, _, a = img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0), a)
}
