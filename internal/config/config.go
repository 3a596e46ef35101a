package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Photo storage modes. Inline embeds the normalized JPEG into the photo
// record itself, blob pushes it to the S3-compatible store, local writes it
// under the media directory next to the data files.
const (
	PhotoStorageInline = "inline"
	PhotoStorageBlob   = "blob"
	PhotoStorageLocal  = "local"
)

// Config holds the environment driven configuration for the memory locker.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"memory-locker"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"LOCKER_PORT" envDefault:"8290"`
	LogLevel        string        `env:"LOCKER_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Access Gate Secrets
	AuthorSecret string `env:"LOCKER_AUTHOR_SECRET" envDefault:"admin123"`
	ReaderSecret string `env:"LOCKER_READER_SECRET" envDefault:"love123"`

	// Storage Backend Selection
	StorageBackend string `env:"LOCKER_STORAGE_BACKEND" envDefault:"local"` // Options: "s3" or "local"
	PhotoStorage   string `env:"LOCKER_PHOTO_STORAGE" envDefault:"inline"`  // Options: "inline", "blob" or "local"

	// Local Storage Configuration
	DataDir      string `env:"LOCKER_DATA_DIR" envDefault:"./data"`
	MediaDir     string `env:"LOCKER_MEDIA_DIR" envDefault:"./photos"`
	MediaBaseURL string `env:"LOCKER_MEDIA_BASE_URL"` // Base URL for serving local files (e.g., "http://localhost:8290/v1/files")

	// S3 Storage Configuration
	S3Endpoint       string `env:"LOCKER_S3_ENDPOINT"`
	S3PublicEndpoint string `env:"LOCKER_S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"LOCKER_S3_REGION" envDefault:"us-west-2"`
	S3Bucket         string `env:"LOCKER_S3_BUCKET"`
	S3AccessKeyID    string `env:"LOCKER_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"LOCKER_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool   `env:"LOCKER_S3_USE_PATH_STYLE" envDefault:"true"`

	// Upload limits
	MaxUploadBytes int64 `env:"LOCKER_MAX_UPLOAD_BYTES" envDefault:"20971520"`
}

// Load parses environment variables into Config and validates the result.
// A half-configured remote backend is a startup failure, not a warning.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3PublicEndpoint = strings.TrimSpace(cfg.S3PublicEndpoint)
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 * 1024 * 1024
	}

	if cfg.IsS3Storage() {
		required := []struct {
			name  string
			value string
		}{
			{"LOCKER_S3_BUCKET", cfg.S3Bucket},
			{"LOCKER_S3_ACCESS_KEY_ID", cfg.S3AccessKeyID},
			{"LOCKER_S3_SECRET_ACCESS_KEY", cfg.S3SecretKey},
		}
		for _, r := range required {
			if r.value == "" {
				return nil, fmt.Errorf("%s is required when LOCKER_STORAGE_BACKEND is s3", r.name)
			}
		}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.PhotoStorage)) {
	case PhotoStorageInline:
		cfg.PhotoStorage = PhotoStorageInline
	case PhotoStorageBlob:
		if !cfg.IsS3Storage() {
			return nil, fmt.Errorf("LOCKER_PHOTO_STORAGE=blob requires LOCKER_STORAGE_BACKEND=s3")
		}
		cfg.PhotoStorage = PhotoStorageBlob
	case PhotoStorageLocal:
		if !cfg.IsLocalStorage() {
			return nil, fmt.Errorf("LOCKER_PHOTO_STORAGE=local requires LOCKER_STORAGE_BACKEND=local")
		}
		if strings.TrimSpace(cfg.MediaDir) == "" {
			return nil, fmt.Errorf("LOCKER_MEDIA_DIR is required when LOCKER_PHOTO_STORAGE is local")
		}
		cfg.PhotoStorage = PhotoStorageLocal
	default:
		return nil, fmt.Errorf("unknown LOCKER_PHOTO_STORAGE %q", cfg.PhotoStorage)
	}

	if strings.TrimSpace(cfg.AuthorSecret) == "" || strings.TrimSpace(cfg.ReaderSecret) == "" {
		return nil, fmt.Errorf("LOCKER_AUTHOR_SECRET and LOCKER_READER_SECRET must not be empty")
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if the local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "local"
}

// IsS3Storage returns true if the S3 storage backend is configured.
func (c *Config) IsS3Storage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "s3"
}
