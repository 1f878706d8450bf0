package dna

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// FallbackIdentifier は識別子が空、または空白のみの場合に使用する固定のプレースホルダーです。
const FallbackIdentifier = "hexbloop"

// MinSeed はシード値として許容される最小の正の値です。
const MinSeed int64 = 1

const (
	saltPrimary     = "primary"
	saltShape       = "shape"
	saltColor       = "color"
	saltComposition = "composition"
	saltBlend       = "blend"

	complexityCeiling = 16
	densityCeiling    = 32
	neutralRatio      = 0.5
)

// DNA は識別子から決定論的に導出されるシード群とスカラー記述子の束です。
// 同じ識別子からは常にバイト単位で同一の DNA が得られます。
type DNA struct {
	Identifier string `json:"identifier"`

	Primary         int64 `json:"primary"`
	ShapeSeed       int64 `json:"shape_seed"`
	ColorSeed       int64 `json:"color_seed"`
	CompositionSeed int64 `json:"composition_seed"`

	Complexity float64 `json:"complexity"`  // [0,1]
	Energy     float64 `json:"energy"`      // [0,1] 母音比率
	Chaos      float64 `json:"chaos"`       // [0,1] 子音比率
	Diversity  float64 `json:"diversity"`   // [0,1] 異なる文字の比率
	Density    float64 `json:"density"`     // [0,1]
	HueOffset  float64 `json:"hue_offset"`  // [0,360)
	StyleBlend float64 `json:"style_blend"` // [0,1)
}

// Normalize は識別子の前後の空白を除去し、NFC 正規化した文字列を返します。
// 見た目が同じ識別子が異なるバイト列で渡されても同じ DNA になるようにするためのものです。
func Normalize(identifier string) string {
	return norm.NFC.String(strings.TrimSpace(identifier))
}

// Derive は識別子から DNA を導出します。純粋関数であり、時刻や呼び出し順序に依存しません。
// 空の識別子は FallbackIdentifier として扱います。
func Derive(identifier string) DNA {
	id := Normalize(identifier)
	if id == "" {
		id = FallbackIdentifier
	}

	primary := SeedFromText(id, saltPrimary)
	st := analyze(id)

	return DNA{
		Identifier:      id,
		Primary:         primary,
		ShapeSeed:       SeedFromText(id, saltShape),
		ColorSeed:       SeedFromText(id, saltColor),
		CompositionSeed: SeedFromText(id, saltComposition),
		Complexity:      float64(min(st.runes, complexityCeiling)) / complexityCeiling,
		Energy:          st.vowelRatio(),
		Chaos:           st.consonantRatio(),
		Diversity:       float64(st.distinct) / float64(st.runes),
		Density:         float64(min(st.runes, densityCeiling)) / densityCeiling,
		HueOffset:       float64(primary % 360),
		StyleBlend:      float64(SeedFromText(id, saltBlend)%1000) / 1000,
	}
}

// WithSeed は明示的なシードで Primary を上書きし、各ストリーム用シードを再導出した DNA を返します。
// 識別子由来のスカラー記述子はそのまま維持します。
func (d DNA) WithSeed(seed int64) DNA {
	seed = NormalizeSeed(seed)
	key := d.Identifier + "#" + strconv.FormatInt(seed, 10)

	d.Primary = seed
	d.ShapeSeed = SeedFromText(key, saltShape)
	d.ColorSeed = SeedFromText(key, saltColor)
	d.CompositionSeed = SeedFromText(key, saltComposition)
	return d
}

// SeedFromText はテキストとソルトから決定論的な正のシード値を生成します。
// ソルトごとに独立したハッシュとなるため、同じテキストから得たシード同士は相関しません。
func SeedFromText(text, salt string) int64 {
	hash := sha256.Sum256([]byte(text + "\x00" + salt))
	// 最上位ビットを落として正の数にそろえる
	seed := int64(binary.BigEndian.Uint32(hash[:4]) & 0x7FFFFFFF)
	return NormalizeSeed(seed)
}

// NormalizeSeed は 0 以下のシードを MinSeed に正規化します。
func NormalizeSeed(seed int64) int64 {
	if seed < MinSeed {
		return MinSeed
	}
	return seed
}

type textStats struct {
	runes      int
	letters    int
	vowels     int
	consonants int
	distinct   int
}

func analyze(s string) textStats {
	st := textStats{runes: utf8.RuneCountInString(s)}
	seen := make(map[rune]struct{}, st.runes)

	for _, r := range s {
		lower := unicode.ToLower(r)
		seen[lower] = struct{}{}
		if !unicode.IsLetter(r) {
			continue
		}
		st.letters++
		if strings.ContainsRune("aeiou", lower) {
			st.vowels++
		} else {
			st.consonants++
		}
	}
	st.distinct = len(seen)
	return st
}

func (s textStats) vowelRatio() float64 {
	if s.letters == 0 {
		return neutralRatio
	}
	return float64(s.vowels) / float64(s.letters)
}

func (s textStats) consonantRatio() float64 {
	if s.letters == 0 {
		return neutralRatio
	}
	return float64(s.consonants) / float64(s.letters)
}
