package director

import (
	"math"

	"github.com/shouni/go-genart-kit/pkg/dna"
	"github.com/shouni/go-genart-kit/pkg/domain"
)

const (
	// MixEpsilon 未満の重みしか持たないスタイルは描画を丸ごと省略します。
	MixEpsilon  = 0.05
	mixBaseline = 0.1
)

// 文脈シグナルの閾値
const (
	highAudio      = 0.6
	lowAudio       = 0.4
	fastTempo      = 140.0
	slowTempo      = 100.0
	heavyLoad      = 0.7
	lightLoad      = 0.3
	moonWindow     = 0.15 // 新月・満月とみなす幅
	chaoticDNA     = 0.6
	complexDNA     = 0.5
	diverseDNA     = 0.6
	strongBoost    = 0.5
	moderateBoost  = 0.3
	dnaBoostFactor = 0.4
)

// Weights はスタイルごとの重みです。Kind をインデックスとして参照します。
type Weights [numKinds]float64

// Of は指定したスタイルの重みを返します。
func (w Weights) Of(k Kind) float64 {
	if k <= Auto || k >= numKinds {
		return 0
	}
	return w[k]
}

// Sum は重みの合計です。
func (w Weights) Sum() float64 {
	var sum float64
	for _, k := range Kinds() {
		sum += w[k]
	}
	return sum
}

// Dominant は最も重いスタイルを返します。同値の場合は Kinds の順で先のものを選びます。
func (w Weights) Dominant() Kind {
	best := Cosmic
	for _, k := range Kinds() {
		if w[k] > w[best] {
			best = k
		}
	}
	return best
}

// Active は epsilon 以上の重みを持つスタイルを Kinds の順で返します。
func (w Weights) Active(epsilon float64) []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if w[k] >= epsilon {
			out = append(out, k)
		}
	}
	return out
}

// Map はメタデータ用にスタイル名をキーとした重みを返します。
func (w Weights) Map() map[string]float64 {
	m := make(map[string]float64, len(Kinds()))
	for _, k := range Kinds() {
		m[k.String()] = w[k]
	}
	return m
}

// Single は1つのスタイルだけに全重みを載せた Weights を返します。
func Single(k Kind) Weights {
	var w Weights
	if k <= Auto || k >= numKinds {
		k = Cosmic
	}
	w[k] = 1
	return w
}

// Mix は DNA と文脈シグナルからスタイルの連続的な重みを求めます。
// 各スタイルは Baseline から始まり、シグナルが閾値を越えるたびに加算され、最後に合計 1 へ正規化されます。
func (m *StyleManager) Mix(d dna.DNA, s domain.Signals) Weights {
	var w Weights
	for _, k := range Kinds() {
		w[k] = m.Baseline
	}

	// 音のエネルギー
	switch {
	case s.AudioEnergy > highAudio:
		w[Energetic] += strongBoost * (s.AudioEnergy - highAudio) / (1 - highAudio)
		w[Energetic] += moderateBoost
	case s.AudioEnergy < lowAudio:
		w[Ethereal] += moderateBoost + strongBoost*(lowAudio-s.AudioEnergy)/lowAudio
	}

	// 月齢。0 と 1 が新月、0.5 が満月
	newMoon := math.Min(s.MoonPhase, 1-s.MoonPhase)
	if newMoon < moonWindow {
		w[Cosmic] += strongBoost * (1 - newMoon/moonWindow)
		w[Cosmic] += moderateBoost
	}
	if math.Abs(s.MoonPhase-0.5) < moonWindow {
		w[Ethereal] += moderateBoost * (1 - math.Abs(s.MoonPhase-0.5)/moonWindow)
	}

	// テンポ
	switch {
	case s.Tempo > fastTempo:
		w[Glitch] += moderateBoost
	case s.Tempo < slowTempo:
		w[Organic] += moderateBoost
	}

	// システム負荷
	switch {
	case s.SystemLoad > heavyLoad:
		w[Glitch] += strongBoost * (s.SystemLoad - heavyLoad) / (1 - heavyLoad)
	case s.SystemLoad < lightLoad:
		w[Geometric] += moderateBoost
	}

	// DNA 自体の性質
	if d.Chaos > chaoticDNA {
		w[Glitch] += dnaBoostFactor * d.Chaos
	}
	if d.Complexity > complexDNA {
		w[Geometric] += dnaBoostFactor * d.Complexity
	}
	if d.Diversity > diverseDNA {
		w[Organic] += dnaBoostFactor * d.Diversity
	}
	w[Energetic] += dnaBoostFactor * d.Energy * 0.5

	return w.normalized()
}

func (w Weights) normalized() Weights {
	sum := w.Sum()
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return Single(Cosmic)
	}
	var out Weights
	for _, k := range Kinds() {
		out[k] = w[k] / sum
	}
	return out
}
