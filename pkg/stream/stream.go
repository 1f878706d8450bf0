// Package stream は生成呼び出しごとに独立した、再現可能な疑似乱数ストリームを提供します。
// グローバルな乱数状態には一切触れません。
package stream

import (
	"math"

	"github.com/shouni/go-genart-kit/pkg/dna"
)

// 64bit 線形合同法の係数 (Knuth MMIX)
const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1442695040888963407
	mantissaBits         = 53
)

// Stream は線形合同法による決定論的な乱数ストリームです。
// 呼び出しローカルで使うことを前提としており、並行利用には対応していません。
type Stream struct {
	seed  int64
	state uint64
}

// New は指定シードからストリームを生成します。0 以下のシードは dna.MinSeed に正規化されます。
func New(seed int64) *Stream {
	seed = dna.NormalizeSeed(seed)
	s := &Stream{seed: seed, state: uint64(seed)}
	// 小さいシード同士の出だしが似通わないよう数回空回しする
	for range 4 {
		s.step()
	}
	return s
}

// Seed はストリームの初期シードを返します。
func (s *Stream) Seed() int64 {
	return s.seed
}

func (s *Stream) step() uint64 {
	s.state = s.state*lcgMultiplier + lcgIncrement
	return s.state
}

// Next は [0,1) の乱数を返します。
func (s *Stream) Next() float64 {
	return float64(s.step()>>(64-mantissaBits)) / (1 << mantissaBits)
}

// Range は [lo,hi) の乱数を返します。
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.Next()
}

// Intn は [0,n) の整数を返します。n が 0 以下の場合は 0 を返します。
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return min(int(s.Next()*float64(n)), n-1)
}

// Chance は確率 p で true を返します。
func (s *Stream) Chance(p float64) bool {
	return s.Next() < p
}

// Sign は -1 または 1 を返します。
func (s *Stream) Sign() float64 {
	if s.Next() < 0.5 {
		return -1
	}
	return 1
}

// Angle は [0,2π) の角度を返します。
func (s *Stream) Angle() float64 {
	return s.Next() * 2 * math.Pi
}

// Pick はスライスから1要素を選んで返します。空のスライスではゼロ値を返します。
func Pick[T any](s *Stream, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[s.Intn(len(items))]
}
