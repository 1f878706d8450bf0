package config

import (
	"time"

	"github.com/shouni/go-genart-kit/pkg/generator"
	"github.com/shouni/go-genart-kit/pkg/noise"
	"github.com/shouni/go-genart-kit/pkg/raster"
)

// デフォルト値の定義
const (
	DefaultOutputDir    = "output"
	DefaultFormat       = raster.PNG
	DefaultConcurrency  = generator.DefaultConcurrency
	DefaultRateInterval = 0 * time.Second
	DefaultCacheTTL     = generator.DefaultCacheTTL
	DefaultNoisePolicy  = noise.PolicyShared
)

// Config は Go GenArt Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- Output Settings ---
	OutputDir string
	Format    raster.Format

	// --- Canvas Settings ---
	Width  int // 0 なら generator.DefaultWidth
	Height int // 0 なら generator.DefaultHeight

	// --- Generation Settings ---
	NoisePolicy noise.Policy
	Mix         bool

	// --- Batch Settings ---
	Concurrency  int
	RateInterval time.Duration // 0 ならレート制限なし
	CacheTTL     time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		OutputDir:    DefaultOutputDir,
		Format:       DefaultFormat,
		Width:        generator.DefaultWidth,
		Height:       generator.DefaultHeight,
		NoisePolicy:  DefaultNoisePolicy,
		Concurrency:  DefaultConcurrency,
		RateInterval: DefaultRateInterval,
		CacheTTL:     DefaultCacheTTL,
	}
}

// ApplyDefaults は Config の値を、個別の指定がない生成オプションへ反映します。
func (c Config) ApplyDefaults(opts generator.Options) generator.Options {
	if opts.Width == 0 {
		opts.Width = c.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Height
	}
	if opts.NoisePolicy == "" {
		opts.NoisePolicy = c.NoisePolicy
	}
	if c.Mix {
		opts.Mix = true
	}
	return opts
}
