package domain

import "math"

// 文脈シグナルの既定値と有効範囲
const (
	NeutralSignal = 0.5
	DefaultTempo  = 120.0
	MinTempo      = 20.0
	MaxTempo      = 300.0
)

// ContextSignals は呼び出し元から任意で渡される文脈シグナルです。
// nil のフィールドは中立値（0.5、テンポは 120）として扱われます。
type ContextSignals struct {
	MoonPhase   *float64 `json:"moon_phase,omitempty" yaml:"moon_phase,omitempty"`     // [0,1] 0/1 が新月、0.5 が満月
	AudioEnergy *float64 `json:"audio_energy,omitempty" yaml:"audio_energy,omitempty"` // [0,1]
	Tempo       *float64 `json:"tempo,omitempty" yaml:"tempo,omitempty"`               // BPM [20,300]
	SystemLoad  *float64 `json:"system_load,omitempty" yaml:"system_load,omitempty"`   // [0,1]
}

// Signals は既定値の補完と範囲の丸めを終えた文脈シグナルです。
type Signals struct {
	MoonPhase   float64 `json:"moon_phase"`
	AudioEnergy float64 `json:"audio_energy"`
	Tempo       float64 `json:"tempo"`
	SystemLoad  float64 `json:"system_load"`
}

// Resolve は欠けた値を補い、範囲外の値を有効範囲に収めた Signals を返します。
// どのような入力でも失敗しません。
func (c ContextSignals) Resolve() Signals {
	return Signals{
		MoonPhase:   clampOr(c.MoonPhase, NeutralSignal, 0, 1),
		AudioEnergy: clampOr(c.AudioEnergy, NeutralSignal, 0, 1),
		Tempo:       clampOr(c.Tempo, DefaultTempo, MinTempo, MaxTempo),
		SystemLoad:  clampOr(c.SystemLoad, NeutralSignal, 0, 1),
	}
}

// Ptr は値へのポインタを返すヘルパーです。
func Ptr[T any](v T) *T {
	return &v
}

func clampOr(v *float64, def, lo, hi float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return def
	}
	return math.Min(math.Max(*v, lo), hi)
}
