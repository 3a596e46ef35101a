// Package testsupport provides shared fakes for package tests.
package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"memorylocker/internal/infrastructure/storage"
)

// MemoryStorage is an in-memory storage.Storage used by tests. It records
// delete calls so cascade behaviour can be asserted.
type MemoryStorage struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	Deleted      []string

	UploadErr   error
	DownloadErr error
	DeleteErr   error

	BaseURL string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
		BaseURL:      "https://blobs.test",
	}
}

func (m *MemoryStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *MemoryStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if m.DownloadErr != nil {
		return nil, "", m.DownloadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), m.contentTypes[key], nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

func (m *MemoryStorage) PublicURL(key string) (string, error) {
	return m.BaseURL + "/" + key, nil
}

func (m *MemoryStorage) Health(ctx context.Context) error { return nil }

// Object returns the stored bytes for key, if any.
func (m *MemoryStorage) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// Keys returns all stored object keys.
func (m *MemoryStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
