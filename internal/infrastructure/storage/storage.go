package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a requested object does not exist in the
// blob store.
var ErrNotFound = errors.New("object not found")

// Storage abstracts the blob store used for media files and, with the
// remote backing, for the collection documents themselves. The key doubles
// as the opaque deletion identifier recorded alongside uploaded media.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) (string, error)
	Health(ctx context.Context) error
}
