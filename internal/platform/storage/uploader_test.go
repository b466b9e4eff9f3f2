package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUploader(t *testing.T, handler http.Handler, timeout time.Duration) *Uploader {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	u := New(Config{BaseURL: srv.URL, Bucket: "vendorhub", Timeout: timeout}, testLogger())
	t.Cleanup(func() { _ = u.Close() })
	return u
}

func TestUploadReturnsDurableURL(t *testing.T) {
	var uploadedPath, body string
	u := newUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/auth/token") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		uploadedPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}), 0)

	url, err := u.Upload(context.Background(), File{Name: "front img.png", Data: []byte("bytes")}, "products")
	require.NoError(t, err)
	require.Equal(t, "bytes", body)
	require.Contains(t, uploadedPath, "/object/vendorhub/products/")
	require.Contains(t, url, "/object/public/vendorhub/products/")
	require.Contains(t, url, "front_img.png", "spaces are normalized in object keys")
}

func TestUploadTimeoutIsDistinguishable(t *testing.T) {
	u := newUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/auth/token") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		time.Sleep(300 * time.Millisecond)
	}), 50*time.Millisecond)

	_, err := u.Upload(context.Background(), File{Name: "slow.png", Data: []byte("x")}, "products")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUploadTimeout)
	require.Contains(t, err.Error(), "slow.png", "error carries the failing file name")
}

func TestUploadCancellationIsNotATimeout(t *testing.T) {
	started := make(chan struct{})
	u := newUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/auth/token") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		close(started)
		time.Sleep(300 * time.Millisecond)
	}), 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := u.Upload(ctx, File{Name: "interrupted.png", Data: []byte("x")}, "products")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUploadTimeout), "caller cancellation is not a timeout")
	require.ErrorIs(t, err, context.Canceled)
}

func TestUploadServerErrorIsNotATimeout(t *testing.T) {
	u := newUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/auth/token") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusInsufficientStorage)
	}), 0)

	_, err := u.Upload(context.Background(), File{Name: "a.png", Data: []byte("x")}, "products")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUploadTimeout))
}

func TestEnsureSessionFallsBackToUnauthenticated(t *testing.T) {
	sawAuth := false
	var uploadAuth string
	u := newUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/auth/token") {
			sawAuth = true
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		uploadAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}), 0)

	_, err := u.Upload(context.Background(), File{Name: "a.png", Data: []byte("x")}, "products")
	require.NoError(t, err, "anonymous auth failure must not block uploads")
	require.True(t, sawAuth)
	require.Empty(t, uploadAuth)
}

func TestEnsureSessionTokenUsedOnUploads(t *testing.T) {
	var uploadAuth string
	u := newUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/auth/token") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"sess-1"}`))
			return
		}
		uploadAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}), 0)

	_, err := u.Upload(context.Background(), File{Name: "a.png", Data: []byte("x")}, "products")
	require.NoError(t, err)
	require.Equal(t, "Bearer sess-1", uploadAuth)
}

func TestDeleteIsBestEffort(t *testing.T) {
	deletes := 0
	u := newUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes++
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), 0)

	// Failure is swallowed.
	u.Delete(context.Background(), u.PublicURL("products/x.png"))
	require.Equal(t, 1, deletes)

	// Foreign URLs are ignored entirely.
	u.Delete(context.Background(), "https://elsewhere.example.com/object/public/other/x.png")
	require.Equal(t, 1, deletes)
}
