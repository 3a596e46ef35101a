package recordstore_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorylocker/internal/infrastructure/recordstore"
	"memorylocker/internal/testsupport"
)

type blobRecord struct {
	ID   int    `json:"id"`
	Date string `json:"date"`
}

func TestBlobBackendRoundTrip(t *testing.T) {
	mem := testsupport.NewMemoryStorage()
	backend := recordstore.NewBlobBackend(mem, "journal", zerolog.Nop())
	col := recordstore.NewCollection[blobRecord](recordstore.CollectionPhotos, backend, zerolog.Nop())
	ctx := context.Background()

	want := []blobRecord{{ID: 1, Date: "2024-01-01"}, {ID: 2, Date: "2024-02-02"}}
	require.NoError(t, col.Save(ctx, want))

	// Document lands under the well-known key.
	_, ok := mem.Object("journal/photos.json")
	assert.True(t, ok)

	got, err := col.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBlobBackendMissingObjectIsEmpty(t *testing.T) {
	mem := testsupport.NewMemoryStorage()
	backend := recordstore.NewBlobBackend(mem, "journal", zerolog.Nop())
	col := recordstore.NewCollection[blobRecord](recordstore.CollectionVideos, backend, zerolog.Nop())

	records, err := col.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBlobBackendAppend(t *testing.T) {
	mem := testsupport.NewMemoryStorage()
	backend := recordstore.NewBlobBackend(mem, "journal", zerolog.Nop())
	col := recordstore.NewCollection[blobRecord](recordstore.CollectionPhotos, backend, zerolog.Nop())
	ctx := context.Background()

	rec, err := col.Append(ctx, func(id int) blobRecord {
		return blobRecord{ID: id, Date: "2024-03-03"}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)

	rec, err = col.Append(ctx, func(id int) blobRecord {
		return blobRecord{ID: id, Date: "2024-04-04"}
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ID)
}
