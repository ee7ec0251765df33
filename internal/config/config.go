// Package config handles pipeline configuration loading from an optional
// YAML file with environment variable overrides. It provides a
// centralized Config struct injected into every component; nothing else
// in the pipeline reads the process environment directly.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidRetryAttempts = errors.New("store.retry_attempts must be non-negative")
	ErrInvalidRetryDelay    = errors.New("store.retry_delay_ms must be non-negative")
	ErrInvalidTimeout       = errors.New("store.timeout_sec must be at least 1")
	ErrInvalidMaxFileSize   = errors.New("image.max_file_size must be positive")
	ErrNoAllowedFormats     = errors.New("image.allowed_formats must list at least one format")
	ErrInvalidQuality       = errors.New("image quality values must be between 1 and 100")
	ErrInvalidConcurrency   = errors.New("processing.concurrency must be at least 1")
	ErrInvalidAssetBackend  = errors.New(`assets.backend must be "store" or "s3"`)
	ErrInvalidCacheBackend  = errors.New(`cache.backend must be "none", "memory", or "redis"`)
)

// StoreConfig holds remote content store connection settings.
type StoreConfig struct {
	ProjectID     string `yaml:"project_id"`
	Dataset       string `yaml:"dataset"`
	APIVersion    string `yaml:"api_version"`
	Token         string `yaml:"token"`
	UseCDN        bool   `yaml:"use_cdn"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	RetryAttempts int    `yaml:"retry_attempts"`
	RetryDelayMS  int    `yaml:"retry_delay_ms"`
}

// Timeout returns the HTTP client timeout as a duration.
func (s StoreConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// RetryDelay returns the base retry backoff as a duration.
func (s StoreConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelayMS) * time.Millisecond
}

// ResizeConfig bounds the optimization resize step.
type ResizeConfig struct {
	MaxWidth       int  `yaml:"max_width"`
	MaxHeight      int  `yaml:"max_height"`
	MaintainAspect bool `yaml:"maintain_aspect_ratio"`
}

// CompressionConfig controls re-encoding during optimization.
type CompressionConfig struct {
	Enabled     bool `yaml:"enabled"`
	Quality     int  `yaml:"quality"`
	Progressive bool `yaml:"progressive"`
}

// ImageConfig is the image validation policy plus optimization defaults.
type ImageConfig struct {
	MaxFileSize         int64             `yaml:"max_file_size"`
	AllowedFormats      []string          `yaml:"allowed_formats"`
	AllowAnimated       bool              `yaml:"allow_animated"`
	MinWidth            int               `yaml:"min_width"`
	MinHeight           int               `yaml:"min_height"`
	MaxWidth            int               `yaml:"max_width"`
	MaxHeight           int               `yaml:"max_height"`
	OptimizationQuality int               `yaml:"optimization_quality"`
	Resize              ResizeConfig      `yaml:"resize"`
	Compression         CompressionConfig `yaml:"compression"`
}

// ProcessingConfig holds local pipeline execution settings.
type ProcessingConfig struct {
	Concurrency   int    `yaml:"concurrency"`
	TempDirectory string `yaml:"temp_directory"`
}

// SecurityConfig restricts which local files the pipeline will read.
type SecurityConfig struct {
	AllowedFileTypes []string `yaml:"allowed_file_types"`
}

// AssetsConfig selects where uploaded image binaries live: the content
// store's own asset endpoint, or an S3-compatible bucket.
type AssetsConfig struct {
	Backend     string `yaml:"backend"` // "store" or "s3"
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3Region    string `yaml:"s3_region"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3PublicURL string `yaml:"s3_public_url"`
}

// CacheConfig selects the document cache backend.
type CacheConfig struct {
	Backend  string `yaml:"backend"` // "none", "memory", or "redis"
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	TTLSec   int    `yaml:"ttl_sec"`
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// AIConfig configures the optional LLM provider used for alt-text
// generation. An empty APIKey disables the provider.
type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config holds all pipeline configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store"`
	Image      ImageConfig      `yaml:"image"`
	Processing ProcessingConfig `yaml:"processing"`
	Security   SecurityConfig   `yaml:"security"`
	Assets     AssetsConfig     `yaml:"assets"`
	Cache      CacheConfig      `yaml:"cache"`
	AI         AIConfig         `yaml:"ai"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Dataset:       "production",
			APIVersion:    "2024-01-01",
			TimeoutSec:    30,
			RetryAttempts: 3,
			RetryDelayMS:  500,
		},
		Image: ImageConfig{
			MaxFileSize:         10 << 20, // 10 MB
			AllowedFormats:      []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
			MinWidth:            16,
			MinHeight:           16,
			MaxWidth:            8000,
			MaxHeight:           8000,
			OptimizationQuality: 80,
			Resize: ResizeConfig{
				MaxWidth:       1920,
				MaxHeight:      1920,
				MaintainAspect: true,
			},
			Compression: CompressionConfig{
				Enabled: true,
				Quality: 80,
			},
		},
		Processing: ProcessingConfig{
			Concurrency:   3,
			TempDirectory: os.TempDir(),
		},
		Security: SecurityConfig{
			AllowedFileTypes: []string{".jpg", ".jpeg", ".png", ".webp", ".gif"},
		},
		Assets: AssetsConfig{
			Backend:  "store",
			S3Region: "us-east-1",
		},
		Cache: CacheConfig{
			Backend: "memory",
			Addr:    "localhost:6379",
			TTLSec:  300,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from an optional YAML file, applies
// environment overrides, and validates the result. An empty path or a
// missing file falls back to defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config parse %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides credentials and connection settings from the
// environment. Only secrets and endpoints are overridable; structural
// policy stays in the file.
func applyEnv(cfg *Config) {
	cfg.Store.ProjectID = envOrDefault("PRESSLINE_STORE_PROJECT_ID", cfg.Store.ProjectID)
	cfg.Store.Dataset = envOrDefault("PRESSLINE_STORE_DATASET", cfg.Store.Dataset)
	cfg.Store.Token = envOrDefault("PRESSLINE_STORE_TOKEN", cfg.Store.Token)
	cfg.Assets.S3AccessKey = envOrDefault("PRESSLINE_S3_ACCESS_KEY", cfg.Assets.S3AccessKey)
	cfg.Assets.S3SecretKey = envOrDefault("PRESSLINE_S3_SECRET_KEY", cfg.Assets.S3SecretKey)
	cfg.Cache.Password = envOrDefault("PRESSLINE_CACHE_PASSWORD", cfg.Cache.Password)
	cfg.AI.APIKey = envOrDefault("PRESSLINE_AI_API_KEY", cfg.AI.APIKey)
}

// Validate checks structural settings and returns the first violation.
func (c *Config) Validate() error {
	if c.Store.RetryAttempts < 0 {
		return ErrInvalidRetryAttempts
	}
	if c.Store.RetryDelayMS < 0 {
		return ErrInvalidRetryDelay
	}
	if c.Store.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if c.Image.MaxFileSize <= 0 {
		return ErrInvalidMaxFileSize
	}
	if len(c.Image.AllowedFormats) == 0 {
		return ErrNoAllowedFormats
	}
	for _, q := range []int{c.Image.OptimizationQuality, c.Image.Compression.Quality} {
		if q < 1 || q > 100 {
			return ErrInvalidQuality
		}
	}
	if c.Processing.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.Assets.Backend != "store" && c.Assets.Backend != "s3" {
		return ErrInvalidAssetBackend
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return ErrInvalidCacheBackend
	}
	return nil
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
