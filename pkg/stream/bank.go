package stream

import "github.com/shouni/go-genart-kit/pkg/dna"

// Bank は1回の生成呼び出しで使う独立したストリームの組です。
// 形状配置・色の揺らぎ・構図をそれぞれ別シードで駆動し、互いに相関しないようにします。
type Bank struct {
	Shape       *Stream
	Color       *Stream
	Composition *Stream
}

// NewBank は DNA の各シードからストリームの組を生成します。
func NewBank(d dna.DNA) *Bank {
	return &Bank{
		Shape:       New(d.ShapeSeed),
		Color:       New(d.ColorSeed),
		Composition: New(d.CompositionSeed),
	}
}
