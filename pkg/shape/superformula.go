package shape

import "math"

const (
	// SuperformulaSteps は既定の角度分解能です。
	SuperformulaSteps = 360

	maxSuperformulaRadius = 4.0
	minExponent           = 1e-3
)

// SuperformulaParams はスーパーフォーミュラ曲線のパラメータです。
type SuperformulaParams struct {
	Center     Point
	Size       float64
	M          float64
	N1, N2, N3 float64
	Steps      int
	Rotation   float64
}

// SuperformulaRadius は単位サイズでの r(θ) を返します。
// 分母が 0 に潰れる場合や発散する場合は maxSuperformulaRadius で打ち切ります。
func SuperformulaRadius(theta, m, n1, n2, n3 float64) float64 {
	if math.Abs(n1) < minExponent {
		n1 = minExponent
	}
	a := math.Pow(math.Abs(math.Cos(m*theta/4)), n2)
	b := math.Pow(math.Abs(math.Sin(m*theta/4)), n3)
	sum := a + b
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return maxSuperformulaRadius
	}
	r := math.Pow(sum, -1/n1)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return maxSuperformulaRadius
	}
	return math.Min(r, maxSuperformulaRadius)
}

// Superformula は固定の角度分解能で閉曲線を標本化した点列を返します。
func Superformula(p SuperformulaParams) []Point {
	steps := p.Steps
	if steps < 3 {
		steps = SuperformulaSteps
	}

	pts := make([]Point, steps)
	for i := range steps {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		r := p.Size * SuperformulaRadius(theta, p.M, p.N1, p.N2, p.N3)
		pts[i] = Polar(p.Center, r, theta+p.Rotation)
	}
	return pts
}
