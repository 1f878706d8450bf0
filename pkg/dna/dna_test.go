package dna

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDerive(t *testing.T) {
	t.Run("同じ識別子から同じDNAが得られること", func(t *testing.T) {
		a := Derive("Hexbloop")
		b := Derive("Hexbloop")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("DNAが一致しません。1回目: %+v, 2回目: %+v", a, b)
		}
	})

	t.Run("空の識別子はフォールバックDNAになること", func(t *testing.T) {
		empty := Derive("")
		blank := Derive("   \t ")
		fallback := Derive(FallbackIdentifier)

		if !reflect.DeepEqual(empty, fallback) {
			t.Errorf("空文字のDNAがフォールバックと一致しません: %+v", empty)
		}
		if !reflect.DeepEqual(blank, fallback) {
			t.Errorf("空白のみのDNAがフォールバックと一致しません: %+v", blank)
		}
	})

	t.Run("前後の空白は無視されること", func(t *testing.T) {
		if !reflect.DeepEqual(Derive("  Nebula "), Derive("Nebula")) {
			t.Error("前後の空白で DNA が変化しました")
		}
	})

	t.Run("各シードが互いに異なること", func(t *testing.T) {
		d := Derive("QUANTUM DIGITAL CORE")
		seeds := map[int64]string{}
		for name, s := range map[string]int64{
			"primary":     d.Primary,
			"shape":       d.ShapeSeed,
			"color":       d.ColorSeed,
			"composition": d.CompositionSeed,
		} {
			if prev, ok := seeds[s]; ok {
				t.Errorf("%s と %s のシードが一致しています: %d", name, prev, s)
			}
			seeds[s] = name
		}
	})

	t.Run("文字を含まない識別子でも比率は中立値になること", func(t *testing.T) {
		d := Derive("12345")
		if d.Energy != 0.5 || d.Chaos != 0.5 {
			t.Errorf("期待値 0.5/0.5, 実際の値 %v/%v", d.Energy, d.Chaos)
		}
	})

	t.Run("母音と子音の比率が文字統計に従うこと", func(t *testing.T) {
		d := Derive("aaab")
		if d.Energy != 0.75 {
			t.Errorf("期待値 0.75, 実際の値 %v", d.Energy)
		}
		if d.Chaos != 0.25 {
			t.Errorf("期待値 0.25, 実際の値 %v", d.Chaos)
		}
		if d.Diversity != 0.5 {
			t.Errorf("期待値 0.5, 実際の値 %v", d.Diversity)
		}
	})
}

func TestWithSeed(t *testing.T) {
	base := Derive("Hexbloop")

	t.Run("明示的なシードでストリーム用シードが変わること", func(t *testing.T) {
		a := base.WithSeed(12345)
		b := base.WithSeed(54321)
		if a.Primary != 12345 {
			t.Errorf("期待値 12345, 実際の値 %d", a.Primary)
		}
		if a.ShapeSeed == b.ShapeSeed || a.ColorSeed == b.ColorSeed {
			t.Error("異なるシードで同じストリーム用シードが生成されました")
		}
		if a.HueOffset != base.HueOffset {
			t.Error("識別子由来の記述子が変化しました")
		}
	})

	t.Run("0以下のシードは最小値に正規化されること", func(t *testing.T) {
		if got := base.WithSeed(-7).Primary; got != MinSeed {
			t.Errorf("期待値 %d, 実際の値 %d", MinSeed, got)
		}
		if got := base.WithSeed(0).Primary; got != MinSeed {
			t.Errorf("期待値 %d, 実際の値 %d", MinSeed, got)
		}
	})
}

func TestDeriveProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("DNA は識別子だけで決まること", prop.ForAll(
		func(id string) bool {
			return reflect.DeepEqual(Derive(id), Derive(id))
		},
		gen.AnyString(),
	))

	properties.Property("各スカラーが定義域に収まること", prop.ForAll(
		func(id string) bool {
			d := Derive(id)
			for _, v := range []float64{d.Complexity, d.Energy, d.Chaos, d.Diversity, d.Density} {
				if v < 0 || v > 1 {
					return false
				}
			}
			return d.HueOffset >= 0 && d.HueOffset < 360 &&
				d.StyleBlend >= 0 && d.StyleBlend < 1 &&
				d.Primary >= MinSeed && d.ShapeSeed >= MinSeed &&
				d.ColorSeed >= MinSeed && d.CompositionSeed >= MinSeed
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
