package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"memorylocker/internal/infrastructure/metrics"
)

// ErrIndexOutOfRange is returned by Delete for a position that does not
// exist in the collection.
var ErrIndexOutOfRange = errors.New("record index out of range")

// Collection is a typed view over one named collection document. All
// mutations run under a per-collection mutex, so two in-process writers can
// no longer silently discard each other's changes. Writers in other
// processes still race last-write-wins.
type Collection[T any] struct {
	name    string
	backend Backend
	log     zerolog.Logger
	mu      sync.Mutex
}

func NewCollection[T any](name string, backend Backend, log zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		name:    name,
		backend: backend,
		log:     log.With().Str("collection", name).Logger(),
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Load returns the persisted sequence in insertion order. An absent
// document yields an empty sequence and no error. A corrupt document also
// yields an empty sequence, but alongside a *CorruptError so the caller can
// surface it instead of mistaking data loss for emptiness.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Save serializes the full ordered sequence, overwriting any prior content.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, records)
}

// Update runs a read-modify-write cycle under the collection mutex. The
// callback receives the current records and returns the records to persist.
// A corrupt document aborts the update rather than overwriting whatever is
// stored there.
func (c *Collection[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.save(ctx, updated)
}

// Append adds one record, assigning it the id count-of-existing-records+1.
// The build callback receives the assigned id and returns the record to
// insert; collections without ids ignore the argument. Note that ids are
// not monotonic across deletions: deleting a record frees its slot in the
// count, so a later append can repeat an id still present lower in the
// sequence. This mirrors the observed behaviour and is relied on by
// existing documents.
func (c *Collection[T]) Append(ctx context.Context, build func(id int) T) (T, error) {
	var created T
	err := c.Update(ctx, func(records []T) ([]T, error) {
		created = build(len(records) + 1)
		return append(records, created), nil
	})
	return created, err
}

// Exists reports whether a document is present for this collection at all,
// readable or not. Seeding logic uses it so that a corrupt or deliberately
// emptied document is never mistaken for a fresh install.
func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.backend.Read(ctx, c.name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes exactly one record by position and rewrites the
// collection. The removed record is returned so the caller can cascade any
// blob or file cleanup it owns.
func (c *Collection[T]) Delete(ctx context.Context, index int) (T, error) {
	var removed T
	err := c.Update(ctx, func(records []T) ([]T, error) {
		if index < 0 || index >= len(records) {
			return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(records))
		}
		removed = records[index]
		return append(records[:index], records[index+1:]...), nil
	})
	return removed, err
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	doc, err := c.backend.Read(ctx, c.name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.StoreOperationsTotal.WithLabelValues(c.name, "load", "empty").Inc()
			return []T{}, nil
		}
		metrics.StoreOperationsTotal.WithLabelValues(c.name, "load", "error").Inc()
		return []T{}, err
	}

	var records []T
	if err := json.Unmarshal(doc, &records); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues(c.name, "load", "corrupt").Inc()
		metrics.CorruptDocumentsTotal.WithLabelValues(c.name).Inc()
		return []T{}, &CorruptError{Collection: c.name, Err: err}
	}

	metrics.StoreOperationsTotal.WithLabelValues(c.name, "load", "ok").Inc()
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	// Indented output keeps the documents hand-inspectable.
	doc, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues(c.name, "save", "error").Inc()
		return fmt.Errorf("encode collection %s: %w", c.name, err)
	}
	if err := c.backend.Write(ctx, c.name, doc); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues(c.name, "save", "error").Inc()
		return err
	}
	metrics.StoreOperationsTotal.WithLabelValues(c.name, "save", "ok").Inc()
	c.log.Debug().Int("records", len(records)).Msg("collection saved")
	return nil
}
