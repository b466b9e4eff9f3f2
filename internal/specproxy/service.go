// Package specproxy serves device-specification lookups from a live upstream
// with a cached and an embedded fallback path. The proxy never surfaces
// upstream failure to its callers.
package specproxy

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"resty.dev/v3"
)

// Response sources reported to callers.
const (
	SourceLive     = "live"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// Result is one proxied lookup answer.
type Result struct {
	Source string          `json:"source"`
	Data   json.RawMessage `json:"data"`
}

// Config groups service settings.
type Config struct {
	UpstreamURL     string
	UpstreamTimeout time.Duration
	CacheTTL        time.Duration
}

// Service answers the three query modes. cache may be nil; the service then
// runs upstream-or-fallback only.
type Service struct {
	upstream *resty.Client
	cache    *redis.Client
	ttl      time.Duration
	fallback Dataset
	logger   *slog.Logger
}

// NewService builds a Service around the upstream origin.
func NewService(cfg Config, cache *redis.Client, fallback Dataset, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.UpstreamTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	upstream := resty.New().SetBaseURL(cfg.UpstreamURL).SetTimeout(timeout)
	return &Service{
		upstream: upstream,
		cache:    cache,
		ttl:      cfg.CacheTTL,
		fallback: fallback,
		logger:   logger,
	}
}

// Close releases transport resources.
func (s *Service) Close() error {
	return s.upstream.Close()
}

// Brands answers the brands mode.
func (s *Service) Brands(ctx context.Context) Result {
	return s.lookup(ctx, "brands", "/brands", nil, func() any { return s.fallback.Brands })
}

// Models answers the models mode for one brand.
func (s *Service) Models(ctx context.Context, brand string) Result {
	query := map[string]string{"brand": brand}
	key := "models:" + url.QueryEscape(brand)
	return s.lookup(ctx, key, "/models", query, func() any { return s.fallback.ModelsFor(brand) })
}

// Specs answers the specs mode for one brand/model pair.
func (s *Service) Specs(ctx context.Context, brand, model string) Result {
	query := map[string]string{"brand": brand, "model": model}
	key := "specs:" + url.QueryEscape(brand) + ":" + url.QueryEscape(model)
	return s.lookup(ctx, key, "/specs", query, func() any { return s.fallback.SpecsFor(brand, model) })
}

// lookup tries cache, then upstream (caching the answer), then fallback.
func (s *Service) lookup(ctx context.Context, cacheKey, path string, query map[string]string, fallback func() any) Result {
	cacheKey = "specproxy:" + cacheKey

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			return Result{Source: SourceCache, Data: cached}
		}
		if err != redis.Nil {
			s.logger.Warn("spec cache read failed", slog.String("key", cacheKey), slog.Any("error", err))
		}
	}

	if data, ok := s.fetchUpstream(ctx, path, query); ok {
		if s.cache != nil {
			if err := s.cache.Set(ctx, cacheKey, []byte(data), s.ttl).Err(); err != nil {
				s.logger.Warn("spec cache write failed", slog.String("key", cacheKey), slog.Any("error", err))
			}
		}
		return Result{Source: SourceLive, Data: data}
	}

	data, err := json.Marshal(fallback())
	if err != nil {
		// The fallback dataset is static and marshals; guard anyway.
		s.logger.Error("marshal fallback payload", slog.Any("error", err))
		data = []byte("null")
	}
	return Result{Source: SourceFallback, Data: data}
}

func (s *Service) fetchUpstream(ctx context.Context, path string, query map[string]string) (json.RawMessage, bool) {
	req := s.upstream.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		s.logger.Warn("spec upstream unreachable", slog.String("path", path), slog.Any("error", err))
		return nil, false
	}
	if resp.IsError() {
		s.logger.Warn("spec upstream error", slog.String("path", path), slog.Int("status", resp.StatusCode()))
		return nil, false
	}
	body := resp.Bytes()
	if !json.Valid(body) {
		s.logger.Warn("spec upstream returned invalid JSON", slog.String("path", path))
		return nil, false
	}
	return json.RawMessage(body), true
}
