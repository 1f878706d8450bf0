package parser

import (
	"github.com/shouni/go-genart-kit/pkg/compositor"
	"github.com/shouni/go-genart-kit/pkg/generator"
	"github.com/shouni/go-genart-kit/pkg/noise"
)

// Manifest はバッチ生成の入力です。Defaults の値は各 Item の未指定の項目に引き継がれます。
type Manifest struct {
	Defaults Item   `yaml:"defaults"`
	Items    []Item `yaml:"items"`
}

// Item はマニフェスト内の1件の生成指定です。
type Item struct {
	Identifier  string              `yaml:"identifier"`
	Style       string              `yaml:"style,omitempty"`
	Seed        *int64              `yaml:"seed,omitempty"`
	MoonPhase   *float64            `yaml:"moon_phase,omitempty"`
	AudioEnergy *float64            `yaml:"audio_energy,omitempty"`
	Tempo       *float64            `yaml:"tempo,omitempty"`
	SystemLoad  *float64            `yaml:"system_load,omitempty"`
	Title       string              `yaml:"title,omitempty"`
	Width       int                 `yaml:"width,omitempty"`
	Height      int                 `yaml:"height,omitempty"`
	Mix         *bool               `yaml:"mix,omitempty"`
	Scheme      string              `yaml:"scheme,omitempty"`
	Effects     *compositor.Effects `yaml:"effects,omitempty"`
	NoisePolicy string              `yaml:"noise_policy,omitempty"`
	FileName    string              `yaml:"file_name,omitempty"`
}

// merge は未指定の項目を defaults で補った Item を返します。
func (it Item) merge(d Item) Item {
	if it.Style == "" {
		it.Style = d.Style
	}
	if it.Seed == nil {
		it.Seed = d.Seed
	}
	if it.MoonPhase == nil {
		it.MoonPhase = d.MoonPhase
	}
	if it.AudioEnergy == nil {
		it.AudioEnergy = d.AudioEnergy
	}
	if it.Tempo == nil {
		it.Tempo = d.Tempo
	}
	if it.SystemLoad == nil {
		it.SystemLoad = d.SystemLoad
	}
	if it.Title == "" {
		it.Title = d.Title
	}
	if it.Width == 0 {
		it.Width = d.Width
	}
	if it.Height == 0 {
		it.Height = d.Height
	}
	if it.Mix == nil {
		it.Mix = d.Mix
	}
	if it.Scheme == "" {
		it.Scheme = d.Scheme
	}
	if it.Effects == nil {
		it.Effects = d.Effects
	}
	if it.NoisePolicy == "" {
		it.NoisePolicy = d.NoisePolicy
	}
	return it
}

// Options は Item を生成オプションに変換します。
func (it Item) Options() generator.Options {
	opts := generator.Options{
		Style:       it.Style,
		Seed:        it.Seed,
		MoonPhase:   it.MoonPhase,
		AudioEnergy: it.AudioEnergy,
		Tempo:       it.Tempo,
		SystemLoad:  it.SystemLoad,
		Title:       it.Title,
		Width:       it.Width,
		Height:      it.Height,
		Scheme:      it.Scheme,
		Effects:     it.Effects,
	}
	if it.Mix != nil {
		opts.Mix = *it.Mix
	}
	if it.NoisePolicy != "" {
		opts.NoisePolicy = noise.ParsePolicy(it.NoisePolicy)
	}
	return opts
}

// Resolved は defaults を適用した Item の一覧を返します。
func (m *Manifest) Resolved() []Item {
	out := make([]Item, len(m.Items))
	for i, it := range m.Items {
		out[i] = it.merge(m.Defaults)
	}
	return out
}

// Requests は defaults を適用した生成リクエストの一覧を返します。
func (m *Manifest) Requests() []generator.Request {
	items := m.Resolved()
	reqs := make([]generator.Request, len(items))
	for i, it := range items {
		reqs[i] = generator.Request{Identifier: it.Identifier, Options: it.Options()}
	}
	return reqs
}
