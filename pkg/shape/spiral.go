package shape

import "math"

// SpiralKind はスパイラルの半径関数の種類です。
type SpiralKind int

const (
	// Archimedean は r = c·t です。
	Archimedean SpiralKind = iota
	// Logarithmic は r = c·e^(k·t) です。
	Logarithmic
	// Fermat は r = c·√t です。
	Fermat
)

func (k SpiralKind) String() string {
	switch k {
	case Logarithmic:
		return "logarithmic"
	case Fermat:
		return "fermat"
	default:
		return "archimedean"
	}
}

// SpiralParams はスパイラルの形状パラメータです。
type SpiralParams struct {
	Kind         SpiralKind
	Center       Point
	Scale        float64 // c
	Growth       float64 // k (対数スパイラルのみ)
	Turns        float64
	StepsPerTurn int
	Rotation     float64
}

// Radius は媒介変数 t における半径を返します。
func (p SpiralParams) Radius(t float64) float64 {
	switch p.Kind {
	case Logarithmic:
		return p.Scale * math.Exp(p.Growth*t)
	case Fermat:
		return p.Scale * math.Sqrt(t)
	default:
		return p.Scale * t
	}
}

// Spiral は turns × stepsPerTurn ステップで標本化したスパイラルの点列を返します。
func Spiral(p SpiralParams) []Point {
	perTurn := max(p.StepsPerTurn, 8)
	steps := int(math.Max(p.Turns, 0) * float64(perTurn))

	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(perTurn) * 2 * math.Pi
		pts = append(pts, Polar(p.Center, p.Radius(t), t+p.Rotation))
	}
	return pts
}
