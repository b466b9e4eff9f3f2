package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the client and the spec proxy.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:5000/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	StorageURL    string        `envconfig:"STORAGE_URL" default:"http://localhost:9000/storage/v1"`
	StorageBucket string        `envconfig:"STORAGE_BUCKET" default:"vendorhub"`
	StorageKey    string        `envconfig:"STORAGE_KEY" default:""`
	UploadTimeout time.Duration `envconfig:"UPLOAD_TIMEOUT" default:"20s"`

	UploadConcurrency int `envconfig:"UPLOAD_CONCURRENCY" default:"3"`
	ImageMaxEdge      int `envconfig:"IMAGE_MAX_EDGE" default:"1600"`
	JPEGQuality       int `envconfig:"JPEG_QUALITY" default:"80"`

	ProductPageSize int `envconfig:"PRODUCT_PAGE_SIZE" default:"100"`
	HistoryPageSize int `envconfig:"HISTORY_PAGE_SIZE" default:"200"`

	ProxyAddr           string        `envconfig:"PROXY_ADDR" default:":8090"`
	ProxyReadTimeout    time.Duration `envconfig:"PROXY_READ_TIMEOUT" default:"15s"`
	ProxyWriteTimeout   time.Duration `envconfig:"PROXY_WRITE_TIMEOUT" default:"15s"`
	ProxyRequestTimeout time.Duration `envconfig:"PROXY_REQUEST_TIMEOUT" default:"30s"`
	SpecUpstreamURL     string        `envconfig:"SPEC_UPSTREAM_URL" default:"https://device-specs.example.com/api"`
	SpecUpstreamTimeout time.Duration `envconfig:"SPEC_UPSTREAM_TIMEOUT" default:"8s"`
	SpecCacheTTL        time.Duration `envconfig:"SPEC_CACHE_TTL" default:"6h"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`

	CredentialsPath string `envconfig:"CREDENTIALS_PATH" default:""`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.UploadConcurrency <= 0 {
		return nil, errors.New("upload concurrency must be positive")
	}
	if cfg.ProductPageSize <= 0 || cfg.HistoryPageSize <= 0 {
		return nil, errors.New("page sizes must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
