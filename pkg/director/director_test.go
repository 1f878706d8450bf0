package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-genart-kit/pkg/dna"
	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/stream"
)

func TestStyleManager_Select(t *testing.T) {
	m := NewStyleManager()

	t.Run("既知の名前はそのまま採用されること", func(t *testing.T) {
		s, ok := m.Select("anything", " Glitch ")
		assert.True(t, ok)
		assert.Equal(t, Glitch, s.Kind)
		assert.Equal(t, "glitch", s.Name())
	})

	t.Run("未知の名前は自動選択に切り替わること", func(t *testing.T) {
		s, ok := m.Select("QUANTUM DIGITAL CORE", "vaporwave")
		assert.False(t, ok)
		assert.Equal(t, m.AutoSelect("QUANTUM DIGITAL CORE"), s.Kind)
		assert.Contains(t, Names(), s.Name())
	})

	t.Run("空や auto は自動選択として扱うこと", func(t *testing.T) {
		a, ok := m.Select("nebula", "")
		assert.True(t, ok)
		b, _ := m.Select("nebula", "AUTO")
		assert.Equal(t, a.Kind, b.Kind)
	})

	t.Run("自動選択は決定論的であること", func(t *testing.T) {
		for _, id := range []string{"a", "hexbloop", "QUANTUM DIGITAL CORE", ""} {
			assert.Equal(t, m.AutoSelect(id), m.AutoSelect(id))
			assert.Contains(t, Kinds(), m.AutoSelect(id))
		}
	})
}

func TestLookup_ReturnsIndependentCopies(t *testing.T) {
	a := Lookup(Cosmic)
	a.Params.Shapes[0] = 0
	a.Params.Schemes[0] = "broken"

	b := Lookup(Cosmic)
	assert.NotEqual(t, a.Params.Shapes[0], b.Params.Shapes[0])
	assert.NotEqual(t, a.Params.Schemes[0], b.Params.Schemes[0])

	assert.Equal(t, Cosmic, Lookup(Auto).Kind)
	for _, k := range Kinds() {
		p := Lookup(k).Params
		assert.NotEmpty(t, p.Shapes, k.String())
		assert.NotEmpty(t, p.Schemes, k.String())
		assert.LessOrEqual(t, p.Density.Min, p.Density.Max, k.String())
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range Names() {
		k, ok := ParseKind(name)
		require.True(t, ok)
		assert.Equal(t, name, k.String())
	}
	_, ok := ParseKind("auto")
	assert.False(t, ok)
}

func TestStyleManager_Mix(t *testing.T) {
	m := NewStyleManager()
	d := dna.Derive("QUANTUM DIGITAL CORE")

	t.Run("重みの合計は 1 になること", func(t *testing.T) {
		w := m.Mix(d, domain.ContextSignals{}.Resolve())
		assert.InDelta(t, 1.0, w.Sum(), 1e-9)
		for _, k := range Kinds() {
			assert.Greater(t, w.Of(k), 0.0)
		}
	})

	t.Run("強い音は energetic を押し上げること", func(t *testing.T) {
		quiet := m.Mix(d, domain.ContextSignals{AudioEnergy: domain.Ptr(0.5)}.Resolve())
		loud := m.Mix(d, domain.ContextSignals{AudioEnergy: domain.Ptr(1.0)}.Resolve())
		assert.Greater(t, loud.Of(Energetic), quiet.Of(Energetic))
	})

	t.Run("新月は cosmic を押し上げること", func(t *testing.T) {
		full := m.Mix(d, domain.ContextSignals{MoonPhase: domain.Ptr(0.5)}.Resolve())
		newMoon := m.Mix(d, domain.ContextSignals{MoonPhase: domain.Ptr(0.0)}.Resolve())
		assert.Greater(t, newMoon.Of(Cosmic), full.Of(Cosmic))
		assert.Equal(t, Cosmic, m.Mix(d, domain.ContextSignals{
			MoonPhase:   domain.Ptr(1.0),
			AudioEnergy: domain.Ptr(0.5),
		}.Resolve()).Dominant())
	})

	t.Run("高負荷と速いテンポは glitch を押し上げること", func(t *testing.T) {
		w := m.Mix(d, domain.ContextSignals{Tempo: domain.Ptr(200.0), SystemLoad: domain.Ptr(1.0)}.Resolve())
		assert.Equal(t, Glitch, w.Dominant())
	})

	t.Run("Active は epsilon 未満を除くこと", func(t *testing.T) {
		w := Single(Organic)
		assert.Equal(t, []Kind{Organic}, w.Active(MixEpsilon))
		assert.Len(t, w.Map(), len(Kinds()))
		assert.Equal(t, 1.0, w.Map()["organic"])
	})
}

func TestLayoutManager(t *testing.T) {
	l := NewLayoutManager()

	for _, c := range []Composition{Thirds, Center, Diagonal, Scatter} {
		t.Run(c.String(), func(t *testing.T) {
			s := stream.New(99)
			pts := l.FocalPoints(c, 400, 300, 5, s)
			require.Len(t, pts, 5)
			for _, p := range pts {
				assert.GreaterOrEqual(t, p.X, 0.0)
				assert.LessOrEqual(t, p.X, 400.0)
				assert.GreaterOrEqual(t, p.Y, 0.0)
				assert.LessOrEqual(t, p.Y, 300.0)
			}

			placed := l.Place(pts, 400, 300, 0.5, s)
			margin := l.Margin * 300
			assert.GreaterOrEqual(t, placed.X, margin)
			assert.LessOrEqual(t, placed.Y, 300-margin)
		})
	}

	t.Run("同じストリームなら同じ構図になること", func(t *testing.T) {
		a := l.FocalPoints(Scatter, 200, 200, 3, stream.New(7))
		b := l.FocalPoints(Scatter, 200, 200, 3, stream.New(7))
		assert.Equal(t, a, b)
	})
}
