package specproxy

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFallback(t *testing.T) Dataset {
	t.Helper()
	ds, err := LoadFallback()
	require.NoError(t, err)
	return ds
}

func testCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newService(t *testing.T, upstreamURL string, cache *redis.Client) *Service {
	t.Helper()
	svc := NewService(Config{UpstreamURL: upstreamURL}, cache, testFallback(t), testLogger())
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestLoadFallback(t *testing.T) {
	ds := testFallback(t)
	require.NotEmpty(t, ds.Brands)
	require.NotEmpty(t, ds.ModelsFor("Apple"))
	require.Empty(t, ds.ModelsFor("NoSuchBrand"))
	require.NotEmpty(t, ds.SpecsFor("Apple", "iPhone 13"))
	require.Empty(t, ds.SpecsFor("Apple", "iPhone 2"))
}

func TestBrandsLiveThenCached(t *testing.T) {
	hits := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, "/brands", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["LiveBrand"]`))
	}))
	t.Cleanup(upstream.Close)

	svc := newService(t, upstream.URL, testCache(t))
	ctx := context.Background()

	res := svc.Brands(ctx)
	require.Equal(t, SourceLive, res.Source)
	require.JSONEq(t, `["LiveBrand"]`, string(res.Data))

	res = svc.Brands(ctx)
	require.Equal(t, SourceCache, res.Source)
	require.JSONEq(t, `["LiveBrand"]`, string(res.Data))
	require.Equal(t, 1, hits, "second lookup must be served from cache")
}

func TestBrandsFallsBackWhenUpstreamUnreachable(t *testing.T) {
	svc := newService(t, "http://127.0.0.1:1", nil)

	res := svc.Brands(context.Background())
	require.Equal(t, SourceFallback, res.Source)

	var brands []string
	require.NoError(t, json.Unmarshal(res.Data, &brands))
	require.Contains(t, brands, "Apple")
}

func TestModelsFallsBackOnUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(upstream.Close)

	svc := newService(t, upstream.URL, nil)
	res := svc.Models(context.Background(), "Samsung")
	require.Equal(t, SourceFallback, res.Source)

	var models []string
	require.NoError(t, json.Unmarshal(res.Data, &models))
	require.Contains(t, models, "Galaxy S24")
}

func TestSpecsFallbackUnknownModelIsEmptyNotError(t *testing.T) {
	svc := newService(t, "http://127.0.0.1:1", nil)
	res := svc.Specs(context.Background(), "Apple", "iPhone 2")
	require.Equal(t, SourceFallback, res.Source)
	require.JSONEq(t, `{}`, string(res.Data))
}

func TestInvalidUpstreamJSONFallsBack(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(upstream.Close)

	svc := newService(t, upstream.URL, nil)
	res := svc.Brands(context.Background())
	require.Equal(t, SourceFallback, res.Source)
}

func TestCacheUnavailableDegradesToUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["X"]`))
	}))
	t.Cleanup(upstream.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close() // cache reachable at construction, gone at lookup time

	svc := newService(t, upstream.URL, client)
	res := svc.Brands(context.Background())
	require.Equal(t, SourceLive, res.Source)
}
