package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-genart-kit/pkg/dna"
	"github.com/shouni/go-genart-kit/pkg/domain"
)

const (
	DefaultCacheTTL     = 30 * time.Minute
	defaultCacheCleanup = 1 * time.Hour
)

// Service は Engine の前段でキャッシュと重複排除を行います。
// 同一リクエストが同時に来た場合は singleflight で1回の生成にまとめ、結果はキャッシュに保持します。
type Service struct {
	engine *Engine
	cache  *cache.Cache
	group  singleflight.Group
}

// NewService は Service の新しいインスタンスを生成します。ttl が 0 以下なら DefaultCacheTTL を使います。
func NewService(engine *Engine, ttl time.Duration) *Service {
	if engine == nil {
		engine = NewEngine()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		engine: engine,
		cache:  cache.New(ttl, defaultCacheCleanup),
	}
}

type generated struct {
	artwork *domain.Artwork
	meta    domain.Metadata
}

// Generate はキャッシュを確認し、なければ Engine で生成します。
// 返される Artwork はキャッシュと共有されるため、呼び出し側で画像を書き換えてはいけません。
func (s *Service) Generate(identifier string, opts Options) (*domain.Artwork, domain.Metadata) {
	// 時刻由来の識別子は再現できないのでキャッシュしない
	if opts.TimestampFallback && dna.Normalize(identifier) == "" {
		return s.engine.Generate(identifier, opts)
	}

	key, err := RequestKey(identifier, opts)
	if err != nil {
		slog.Warn("キャッシュキーを作れないためキャッシュを使わずに生成します", "error", err)
		return s.engine.Generate(identifier, opts)
	}

	if v, ok := s.cache.Get(key); ok {
		if g, ok := v.(generated); ok {
			slog.Debug("キャッシュから作品を返します", "identifier", g.meta.Identifier)
			return g.artwork, g.meta
		}
	}

	v, _, shared := s.group.Do(key, func() (interface{}, error) {
		// 待機中に他のゴルーチンが生成を終えている可能性があるため再確認
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
		art, meta := s.engine.Generate(identifier, opts)
		g := generated{artwork: art, meta: meta}
		s.cache.SetDefault(key, g)
		return g, nil
	})
	g := v.(generated)
	if shared {
		slog.Debug("同時リクエストを1回の生成にまとめました", "identifier", g.meta.Identifier)
	}
	return g.artwork, g.meta
}

// Len はキャッシュ済みの作品数を返します。
func (s *Service) Len() int {
	return s.cache.ItemCount()
}

// Flush はキャッシュを空にします。
func (s *Service) Flush() {
	s.cache.Flush()
}

// RequestKey は正規化した識別子とオプションから決定論的なキーを作ります。
func RequestKey(identifier string, opts Options) (string, error) {
	id := dna.Normalize(identifier)
	if id == "" {
		id = dna.FallbackIdentifier
	}
	body, err := json.Marshal(struct {
		ID   string  `json:"id"`
		Opts Options `json:"opts"`
	}{id, opts})
	if err != nil {
		return "", fmt.Errorf("リクエストのシリアライズに失敗しました: %w", err)
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
