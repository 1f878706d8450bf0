package config

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/go-genart-kit/pkg/compositor"
	kit "github.com/shouni/go-genart-kit/pkg/config"
	"github.com/shouni/go-genart-kit/pkg/domain"
	"github.com/shouni/go-genart-kit/pkg/generator"
	"github.com/shouni/go-genart-kit/pkg/noise"
	"github.com/shouni/go-genart-kit/pkg/raster"
)

// 環境変数名の定義なのだ
const (
	EnvOutputDir    = "GENART_OUTPUT_DIR"
	EnvFormat       = "GENART_FORMAT"
	EnvWidth        = "GENART_WIDTH"
	EnvHeight       = "GENART_HEIGHT"
	EnvNoisePolicy  = "GENART_NOISE_POLICY"
	EnvConcurrency  = "GENART_CONCURRENCY"
	EnvRateInterval = "GENART_RATE_INTERVAL"
	EnvCacheTTL     = "GENART_CACHE_TTL"
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	Kit kit.Config

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// 解釈できない値は警告を出してデフォルト値のままにするのだ。
func LoadConfig() *Config {
	def := kit.DefaultConfig()
	k := kit.Config{
		OutputDir:    envutil.GetEnv(EnvOutputDir, def.OutputDir),
		Format:       def.Format,
		Width:        envInt(EnvWidth, def.Width),
		Height:       envInt(EnvHeight, def.Height),
		NoisePolicy:  noise.ParsePolicy(envutil.GetEnv(EnvNoisePolicy, string(def.NoisePolicy))),
		Concurrency:  envInt(EnvConcurrency, def.Concurrency),
		RateInterval: envDuration(EnvRateInterval, def.RateInterval),
		CacheTTL:     envDuration(EnvCacheTTL, def.CacheTTL),
	}

	if v := envutil.GetEnv(EnvFormat, ""); v != "" {
		f, err := raster.ParseFormat(v)
		if err != nil {
			slog.Warn("出力形式を解釈できないのでデフォルトを使うのだ", "env", EnvFormat, "value", v)
		} else {
			k.Format = f
		}
	}

	return &Config{Kit: k}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入出力関連
	OutputDir    string // --output-dir
	Format       string // --format
	FileName     string // --file-name
	ManifestFile string // --manifest

	// 生成パラメータ
	Style       string  // --style
	Seed        int64   // --seed
	MoonPhase   float64 // --moon-phase
	AudioEnergy float64 // --audio-energy
	Tempo       float64 // --tempo
	SystemLoad  float64 // --system-load
	Title       string  // --title
	Width       int     // --width
	Height      int     // --height
	Mix         bool    // --mix
	Scheme      string  // --scheme
	NoisePolicy string  // --noise-policy
	Timestamp   bool    // --timestamp-fallback

	// 演出の上書き
	NoEffects bool // --no-effects

	// 実行制御
	Concurrency  int           // --concurrency
	RateInterval time.Duration // --rate-interval
}

// フラグ名の定義なのだ
const (
	FlagSeed        = "seed"
	FlagMoonPhase   = "moon-phase"
	FlagAudioEnergy = "audio-energy"
	FlagTempo       = "tempo"
	FlagSystemLoad  = "system-load"
)

// GeneratorOptions はフラグの値を生成オプションに変換するのだ。
// changed は明示されたフラグを判定する関数で、省略されたシグナルは nil のままにするのだ。
func (o GenerateOptions) GeneratorOptions(changed func(name string) bool) generator.Options {
	opts := generator.Options{
		Style:             o.Style,
		Title:             o.Title,
		Width:             o.Width,
		Height:            o.Height,
		Mix:               o.Mix,
		Scheme:            o.Scheme,
		TimestampFallback: o.Timestamp,
	}
	if o.NoisePolicy != "" {
		opts.NoisePolicy = noise.ParsePolicy(o.NoisePolicy)
	}
	if o.NoEffects {
		opts.Effects = &compositor.Effects{}
	}
	if changed(FlagSeed) {
		opts.Seed = domain.Ptr(o.Seed)
	}
	if changed(FlagMoonPhase) {
		opts.MoonPhase = domain.Ptr(o.MoonPhase)
	}
	if changed(FlagAudioEnergy) {
		opts.AudioEnergy = domain.Ptr(o.AudioEnergy)
	}
	if changed(FlagTempo) {
		opts.Tempo = domain.Ptr(o.Tempo)
	}
	if changed(FlagSystemLoad) {
		opts.SystemLoad = domain.Ptr(o.SystemLoad)
	}
	return opts
}

// ApplyTo は明示されたフラグで Kit の設定を上書きするのだ。
// サイズやミックスもここで反映するので、batch でもマニフェストの既定値として効くのだ。
func (o GenerateOptions) ApplyTo(k kit.Config) (kit.Config, error) {
	if o.OutputDir != "" {
		k.OutputDir = o.OutputDir
	}
	if o.Width > 0 {
		k.Width = o.Width
	}
	if o.Height > 0 {
		k.Height = o.Height
	}
	if o.Mix {
		k.Mix = true
	}
	if o.NoisePolicy != "" {
		k.NoisePolicy = noise.ParsePolicy(o.NoisePolicy)
	}
	if o.Format != "" {
		f, err := raster.ParseFormat(o.Format)
		if err != nil {
			return k, err
		}
		k.Format = f
	}
	if o.Concurrency > 0 {
		k.Concurrency = o.Concurrency
	}
	if o.RateInterval > 0 {
		k.RateInterval = o.RateInterval
	}
	return k, nil
}

func envInt(key string, def int) int {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("整数として解釈できないのでデフォルトを使うのだ", "env", key, "value", v)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("期間として解釈できないのでデフォルトを使うのだ", "env", key, "value", v)
		return def
	}
	return d
}
