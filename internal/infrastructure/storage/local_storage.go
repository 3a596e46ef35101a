package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"memorylocker/internal/config"
	"memorylocker/internal/infrastructure/metrics"
)

// LocalStorage handles uploads and downloads to the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
	log      zerolog.Logger
}

// NewLocalStorage creates a new local filesystem storage backend rooted at
// the configured media directory.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.MediaDir)
	if basePath == "" {
		return nil, fmt.Errorf("LOCKER_MEDIA_DIR must be set for local storage")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	storage := &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSpace(cfg.MediaBaseURL),
		log:      logger,
	}

	logger.Info().
		Str("path", basePath).
		Str("base_url", storage.baseURL).
		Msg("local storage initialized")

	return storage, nil
}

// BasePath returns the directory files are stored under.
func (l *LocalStorage) BasePath() string {
	return l.basePath
}

// Upload stores a file on the local filesystem.
func (l *LocalStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		metrics.BlobOperationsTotal.WithLabelValues("upload", "error").Inc()
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		metrics.BlobOperationsTotal.WithLabelValues("upload", "error").Inc()
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, body)
	if err != nil {
		metrics.BlobOperationsTotal.WithLabelValues("upload", "error").Inc()
		return fmt.Errorf("failed to write file: %w", err)
	}

	metrics.BlobOperationsTotal.WithLabelValues("upload", "ok").Inc()
	l.log.Debug().
		Str("key", key).
		Int64("bytes", written).
		Msg("file uploaded to local storage")

	return nil
}

// Download reads a file from the local filesystem.
func (l *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	contentType := detectContentTypeFromPath(fullPath)

	l.log.Debug().
		Str("key", key).
		Str("content_type", contentType).
		Msg("file downloaded from local storage")

	return file, contentType, nil
}

// Delete removes a file. A file that is already absent is not an error; the
// record pointing at it is being discarded either way.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			l.log.Debug().Str("key", key).Msg("file already absent on delete")
			return nil
		}
		metrics.BlobOperationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete file: %w", err)
	}
	metrics.BlobOperationsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// PublicURL returns a serving URL for the file. If no base URL is configured
// a file:// URL is returned.
func (l *LocalStorage) PublicURL(key string) (string, error) {
	urlKey := filepath.ToSlash(key)
	if l.baseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(l.baseURL, "/"), urlKey), nil
	}
	return fmt.Sprintf("file://%s", filepath.Join(l.basePath, filepath.FromSlash(key))), nil
}

// Health checks if the storage directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}

// detectContentTypeFromPath attempts to determine content type from file extension.
func detectContentTypeFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
