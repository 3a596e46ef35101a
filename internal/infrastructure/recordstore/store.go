// Package recordstore persists named collections of journal records as
// ordered JSON array documents. Every mutation is a whole-document
// read-modify-write; the backing document lives either on local disk or in
// the blob store, selected at startup.
package recordstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"memorylocker/internal/infrastructure/storage"
)

// Collection names used by the journal.
const (
	CollectionPhotos   = "photos"
	CollectionVideos   = "videos"
	CollectionLetters  = "letters"
	CollectionTimeline = "timeline"
)

// ErrNotFound is returned by a Backend when no document exists for the
// collection yet. Callers treat it as an empty collection.
var ErrNotFound = errors.New("collection document not found")

// CorruptError marks a document that exists but could not be parsed. It is
// distinct from an absent document so that operators can tell silent data
// loss apart from a genuinely empty collection.
type CorruptError struct {
	Collection string
	Err        error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("collection %s document is corrupt: %v", e.Collection, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Backend reads and writes whole collection documents.
type Backend interface {
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, doc []byte) error
}

// FileBackend keeps one pretty-printed JSON file per collection under a
// data directory.
type FileBackend struct {
	dir string
	log zerolog.Logger
}

func NewFileBackend(dir string, log zerolog.Logger) (*FileBackend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{
		dir: dir,
		log: log.With().Str("component", "file-backend").Logger(),
	}, nil
}

func (b *FileBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(b.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, collection)
		}
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}
	return data, nil
}

// Write replaces the document in full. The temp-file-and-rename keeps a
// crashed writer from leaving a half-written document behind; concurrent
// out-of-process writers still race last-write-wins.
func (b *FileBackend) Write(ctx context.Context, collection string, doc []byte) error {
	target := b.path(collection)
	tmp, err := os.CreateTemp(b.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	return nil
}

func (b *FileBackend) path(collection string) string {
	return filepath.Join(b.dir, collection+".json")
}

// BlobBackend stores each collection document as a raw object in the blob
// store under a well-known key.
type BlobBackend struct {
	storage storage.Storage
	prefix  string
	log     zerolog.Logger
}

func NewBlobBackend(st storage.Storage, prefix string, log zerolog.Logger) *BlobBackend {
	return &BlobBackend{
		storage: st,
		prefix:  strings.Trim(prefix, "/"),
		log:     log.With().Str("component", "blob-backend").Logger(),
	}
}

func (b *BlobBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	reader, _, err := b.storage.Download(ctx, b.key(collection))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, collection)
		}
		return nil, fmt.Errorf("fetch collection %s: %w", collection, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("fetch collection %s: %w", collection, err)
	}
	return data, nil
}

func (b *BlobBackend) Write(ctx context.Context, collection string, doc []byte) error {
	key := b.key(collection)
	if err := b.storage.Upload(ctx, key, bytes.NewReader(doc), int64(len(doc)), "application/json"); err != nil {
		return fmt.Errorf("push collection %s: %w", collection, err)
	}
	return nil
}

func (b *BlobBackend) key(collection string) string {
	return path.Join(b.prefix, collection+".json")
}
