// Package storage implements the object-storage client used to host product
// and storefront images before they are referenced by the remote API.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"resty.dev/v3"
)

// DefaultUploadTimeout bounds a single object upload.
const DefaultUploadTimeout = 20 * time.Second

// ErrUploadTimeout marks uploads that exceeded the per-upload deadline,
// distinguishing them from generic transport failures.
var ErrUploadTimeout = errors.New("storage: upload timed out")

// File is one binary payload to upload.
type File struct {
	Name string
	Data []byte
}

// Config groups uploader settings.
type Config struct {
	BaseURL string
	Bucket  string
	APIKey  string
	Timeout time.Duration
}

// Uploader talks to the object-storage service. Uploads require a session;
// EnsureSession runs lazily before the first upload and degrades to
// unauthenticated access when anonymous auth is unavailable.
type Uploader struct {
	rc     *resty.Client
	cfg    Config
	logger *slog.Logger

	sessionOnce sync.Once
	session     string
}

// New builds an Uploader.
func New(cfg Config, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultUploadTimeout
	}
	rc := resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	return &Uploader{rc: rc, cfg: cfg, logger: logger}
}

// Close releases transport resources.
func (u *Uploader) Close() error {
	return u.rc.Close()
}

// EnsureSession performs the anonymous auth handshake. Failure is not fatal:
// the uploader proceeds unauthenticated with a logged warning.
func (u *Uploader) EnsureSession(ctx context.Context) {
	u.sessionOnce.Do(func() {
		var out struct {
			AccessToken string `json:"access_token"`
		}
		resp, err := u.rc.R().
			SetContext(ctx).
			SetHeader("apikey", u.cfg.APIKey).
			SetBody(map[string]string{"grant_type": "anonymous"}).
			SetResult(&out).
			Post("/auth/token")
		if err != nil || resp.IsError() || out.AccessToken == "" {
			u.logger.Warn("anonymous storage auth unavailable, proceeding unauthenticated")
			return
		}
		u.session = out.AccessToken
	})
}

// Upload stores the file under prefix and returns its durable public URL.
func (u *Uploader) Upload(ctx context.Context, file File, prefix string) (string, error) {
	u.EnsureSession(ctx)

	key := objectKey(prefix, file.Name)
	ctx, cancel := context.WithTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	req := u.rc.R().
		SetContext(ctx).
		SetHeader("apikey", u.cfg.APIKey).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(bytes.NewReader(file.Data))
	if u.session != "" {
		req.SetAuthToken(u.session)
	}
	resp, err := req.Post("/object/" + u.cfg.Bucket + "/" + key)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("storage: upload %q to %s/%s: %w", file.Name, u.cfg.Bucket, prefix, ErrUploadTimeout)
		}
		return "", fmt.Errorf("storage: upload %q to %s/%s: %w", file.Name, u.cfg.Bucket, prefix, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("storage: upload %q to %s/%s: status %d", file.Name, u.cfg.Bucket, prefix, resp.StatusCode())
	}
	return u.PublicURL(key), nil
}

// PublicURL returns the durable URL for an object key.
func (u *Uploader) PublicURL(key string) string {
	return strings.TrimRight(u.cfg.BaseURL, "/") + "/object/public/" + u.cfg.Bucket + "/" + key
}

// Delete removes an object by its public URL. Best effort: failures are
// logged warnings and never surface to the caller.
func (u *Uploader) Delete(ctx context.Context, publicURL string) {
	marker := "/object/public/" + u.cfg.Bucket + "/"
	idx := strings.Index(publicURL, marker)
	if idx < 0 {
		u.logger.Warn("skipping delete of foreign storage URL", slog.String("url", publicURL))
		return
	}
	key := publicURL[idx+len(marker):]
	req := u.rc.R().SetContext(ctx).SetHeader("apikey", u.cfg.APIKey)
	if u.session != "" {
		req.SetAuthToken(u.session)
	}
	resp, err := req.Delete("/object/" + u.cfg.Bucket + "/" + key)
	if err != nil {
		u.logger.Warn("storage delete failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if resp.IsError() {
		u.logger.Warn("storage delete failed", slog.String("key", key), slog.Int("status", resp.StatusCode()))
	}
}

func objectKey(prefix, name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return uuid.NewString() + "-" + name
	}
	return prefix + "/" + uuid.NewString() + "-" + name
}
