// Package noise は置換テーブルに基づくコヒーレントなバリューノイズとタービュランスを提供します。
// Field は生成後に変更されないため、複数の生成呼び出しから読み取り専用で共有できます。
package noise

import (
	"math"
	"sync"

	"github.com/shouni/go-genart-kit/pkg/stream"
)

const (
	tableSize = 256
	tableMask = tableSize - 1

	// SharedSeed はプロセス共有テーブルを構築する固定シードです。
	SharedSeed int64 = 1337
)

// Policy はノイズテーブルの構築方針です。
type Policy string

const (
	// PolicyShared は固定シードで一度だけ構築したテーブルを全呼び出しで共有します。
	PolicyShared Policy = "shared"
	// PolicyPerCall は呼び出しごとに DNA 由来のシードでテーブルを構築します。
	PolicyPerCall Policy = "per-call"
)

// ParsePolicy は文字列から Policy を解決します。未知の値は PolicyShared として扱います。
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyPerCall {
		return PolicyPerCall
	}
	return PolicyShared
}

// Field はシャッフル済みの置換テーブルを保持するノイズ評価器です。
type Field struct {
	perm [tableSize * 2]uint8
}

var shared = sync.OnceValue(func() *Field {
	return New(SharedSeed)
})

// Shared はプロセス全体で共有される不変のノイズ場を返します。
func Shared() *Field {
	return shared()
}

// ForPolicy は方針に応じてノイズ場を返します。
func ForPolicy(p Policy, seed int64) *Field {
	if p == PolicyPerCall {
		return New(seed)
	}
	return Shared()
}

// New はシードからテーブルをシャッフルして新しいノイズ場を構築します。
// テーブルは 512 要素に複製し、インデックスの折り返し判定を不要にしています。
func New(seed int64) *Field {
	var base [tableSize]uint8
	for i := range base {
		base[i] = uint8(i)
	}

	s := stream.New(seed)
	for i := tableSize - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		base[i], base[j] = base[j], base[i]
	}

	f := &Field{}
	for i := range f.perm {
		f.perm[i] = base[i&tableMask]
	}
	return f
}

// Noise2D は (x,y) におけるノイズ値を [0,1] で返します。
// 格子点の値を 6t^5-15t^4+10t^3 の補間曲線で滑らかにつなぎます。
func (f *Field) Noise2D(x, y float64) float64 {
	fx0 := math.Floor(x)
	fy0 := math.Floor(y)
	ix := int(fx0) & tableMask
	iy := int(fy0) & tableMask

	u := fade(x - fx0)
	v := fade(y - fy0)

	v00 := f.lattice(ix, iy)
	v10 := f.lattice(ix+1, iy)
	v01 := f.lattice(ix, iy+1)
	v11 := f.lattice(ix+1, iy+1)

	return lerp(lerp(v00, v10, u), lerp(v01, v11, u), v)
}

// Turbulence は周波数を倍、振幅を半分にしながら octaves 回ノイズを重ね、
// 振幅の総和で正規化した値を [0,1] で返します。
func (f *Field) Turbulence(x, y float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}

	var sum, total float64
	amp, freq := 1.0, 1.0
	for range octaves {
		sum += amp * f.Noise2D(x*freq, y*freq)
		total += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / total
}

func (f *Field) lattice(ix, iy int) float64 {
	return float64(f.perm[int(f.perm[ix&tableMask])+(iy&tableMask)]) / tableMask
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
