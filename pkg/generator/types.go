package generator

import (
	"github.com/shouni/go-genart-kit/pkg/compositor"
	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/noise"
)

const (
	// DefaultWidth は幅が未指定の場合の出力幅です。
	DefaultWidth = 1200
	// DefaultHeight は高さが未指定の場合の出力高さです。
	DefaultHeight = 1200
	// MinSize は受け付ける最小の辺の長さです。これより小さい値は切り上げます。
	MinSize = 8
	// MaxSize は受け付ける最大の辺の長さです。
	MaxSize = 8192
)

// Options は1回の生成呼び出しの入力です。すべて任意で、ゼロ値は既定の挙動になります。
type Options struct {
	Style string `json:"style,omitempty"` // 空または "auto" で識別子から自動選択
	Seed  *int64 `json:"seed,omitempty"`

	MoonPhase   *float64 `json:"moon_phase,omitempty"`
	AudioEnergy *float64 `json:"audio_energy,omitempty"`
	Tempo       *float64 `json:"tempo,omitempty"`
	SystemLoad  *float64 `json:"system_load,omitempty"`

	Title  string `json:"title,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`

	// Mix が true の場合、文脈シグナルから求めた重みで全スタイルを重ね描きします。Style は無視されます。
	Mix bool `json:"mix,omitempty"`
	// Scheme はスタイルが選ぶ配色スキームを上書きします。
	Scheme string `json:"scheme,omitempty"`
	// Effects はスタイル由来のポストエフェクト強度を丸ごと置き換えます。
	Effects     *compositor.Effects `json:"effects,omitempty"`
	NoisePolicy noise.Policy        `json:"noise_policy,omitempty"`
	// TimestampFallback が true の場合、空の識別子を固定値ではなく現在時刻から作ります。
	// 結果は再現不能になるため、Service はこの呼び出しをキャッシュしません。
	TimestampFallback bool `json:"timestamp_fallback,omitempty"`
}

// ContextSignals は Options に含まれる文脈シグナルを取り出します。
func (o Options) ContextSignals() domain.ContextSignals {
	return domain.ContextSignals{
		MoonPhase:   o.MoonPhase,
		AudioEnergy: o.AudioEnergy,
		Tempo:       o.Tempo,
		SystemLoad:  o.SystemLoad,
	}
}

// Size は既定値の補完と範囲の丸めを終えた出力サイズを返します。
func (o Options) Size() (int, int) {
	return clampSize(o.Width, DefaultWidth), clampSize(o.Height, DefaultHeight)
}

func clampSize(v, def int) int {
	if v <= 0 {
		return def
	}
	return min(max(v, MinSize), MaxSize)
}
