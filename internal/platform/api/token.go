package api

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenEnv = "VENDORHUB_TOKEN"

// TokenStore reads the bearer credential from the environment or a
// credentials file on disk. The token is issued by the remote system; the
// store only inspects its expiry claim to warn about stale credentials, it
// never verifies the signature.
type TokenStore struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	warned bool
}

type credentialsFile struct {
	AccessToken string `json:"access_token"`
}

// NewTokenStore builds a TokenStore. An empty path selects
// ~/.vendorhub/credentials.
func NewTokenStore(path string, logger *slog.Logger) *TokenStore {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".vendorhub", "credentials")
		}
	}
	return &TokenStore{path: path, logger: logger}
}

// Token returns the current bearer credential, or "" when none is stored.
func (s *TokenStore) Token() string {
	tok := os.Getenv(tokenEnv)
	if tok == "" {
		tok = s.readFile()
	}
	if tok != "" {
		s.warnIfExpired(tok)
	}
	return tok
}

// Save writes the credential file, creating its directory when needed.
func (s *TokenStore) Save(token string) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(credentialsFile{AccessToken: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the credential file.
func (s *TokenStore) Clear() error {
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *TokenStore) readFile() string {
	if s.path == "" {
		return ""
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var creds credentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return ""
	}
	return creds.AccessToken
}

// warnIfExpired logs once when the stored token's exp claim has passed. The
// token is still sent; the remote system remains the authority on validity.
func (s *TokenStore) warnIfExpired(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warned {
		return
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if time.Now().After(exp.Time) {
		s.warned = true
		s.logger.Warn("stored credential is expired", slog.Time("expired_at", exp.Time))
	}
}
