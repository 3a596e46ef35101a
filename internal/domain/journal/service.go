// Package journal holds the memory locker's record types and the service
// that authors and reads them.
package journal

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"memorylocker/internal/config"
	"memorylocker/internal/domain/media"
	"memorylocker/internal/infrastructure/metrics"
	"memorylocker/internal/infrastructure/recordstore"
	"memorylocker/internal/infrastructure/storage"
)

var (
	// ErrRecordNotFound is returned when no record carries the requested id.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNoMemories is returned by Surprise when every collection is empty.
	ErrNoMemories = errors.New("no memories yet")
)

// ValidationError marks rejected author input. Nothing is persisted when
// one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Service orchestrates the journal: validation, media normalization, blob
// placement and record persistence.
type Service struct {
	cfg        *config.Config
	photos     *recordstore.Collection[PhotoRecord]
	videos     *recordstore.Collection[VideoRecord]
	letters    *recordstore.Collection[LetterRecord]
	timeline   *recordstore.Collection[TimelineEventRecord]
	blobs      storage.Storage
	normalizer *media.Normalizer
	log        zerolog.Logger
}

func NewService(cfg *config.Config, backend recordstore.Backend, blobs storage.Storage, normalizer *media.Normalizer, log zerolog.Logger) *Service {
	logger := log.With().Str("component", "journal-service").Logger()
	return &Service{
		cfg:        cfg,
		photos:     recordstore.NewCollection[PhotoRecord](recordstore.CollectionPhotos, backend, logger),
		videos:     recordstore.NewCollection[VideoRecord](recordstore.CollectionVideos, backend, logger),
		letters:    recordstore.NewCollection[LetterRecord](recordstore.CollectionLetters, backend, logger),
		timeline:   recordstore.NewCollection[TimelineEventRecord](recordstore.CollectionTimeline, backend, logger),
		blobs:      blobs,
		normalizer: normalizer,
		log:        logger,
	}
}

// AddPhotoParams is the author input for a new photo.
type AddPhotoParams struct {
	OriginalName string
	Date         string
	Caption      string
	Data         []byte
}

// AddPhoto normalizes the image, places the payload per the configured
// photo storage mode, and appends the record. The blob or file write
// happens before the document rewrite, so a failed upload leaves the
// collection untouched.
func (s *Service) AddPhoto(ctx context.Context, params AddPhotoParams) (*PhotoRecord, error) {
	if len(params.Data) == 0 {
		return nil, &ValidationError{Field: "file", Reason: "a photo file is required"}
	}
	if int64(len(params.Data)) > s.cfg.MaxUploadBytes {
		return nil, &ValidationError{Field: "file", Reason: fmt.Sprintf("exceeds max size of %d bytes", s.cfg.MaxUploadBytes)}
	}
	if strings.TrimSpace(params.Caption) == "" {
		return nil, &ValidationError{Field: "caption", Reason: "caption must not be empty"}
	}
	date, err := parseDate(params.Date)
	if err != nil {
		return nil, err
	}

	normalized, err := s.normalizer.Normalize(params.Data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("photo", "error").Inc()
		return nil, fmt.Errorf("process photo: %w", err)
	}

	record := PhotoRecord{
		OriginalName: filepath.Base(params.OriginalName),
		Date:         date,
		Caption:      strings.TrimSpace(params.Caption),
		UploadDate:   time.Now().Format(TimestampLayout),
		FileSize:     int64(len(params.Data)),
		Width:        normalized.Width,
		Height:       normalized.Height,
	}

	switch s.cfg.PhotoStorage {
	case config.PhotoStorageInline:
		record.StorageType = StorageInline
		record.Base64Data = base64.StdEncoding.EncodeToString(normalized.Data)

	case config.PhotoStorageBlob:
		key := fmt.Sprintf("photos/%s.jpg", newBlobID())
		if err := s.blobs.Upload(ctx, key, bytes.NewReader(normalized.Data), int64(len(normalized.Data)), "image/jpeg"); err != nil {
			metrics.UploadsTotal.WithLabelValues("photo", "error").Inc()
			return nil, fmt.Errorf("upload photo: %w", err)
		}
		url, err := s.blobs.PublicURL(key)
		if err != nil {
			return nil, fmt.Errorf("resolve photo url: %w", err)
		}
		record.StorageType = StorageBlob
		record.URL = url
		record.BlobID = key

	case config.PhotoStorageLocal:
		name := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(params.OriginalName))
		if err := s.blobs.Upload(ctx, name, bytes.NewReader(normalized.Data), int64(len(normalized.Data)), "image/jpeg"); err != nil {
			metrics.UploadsTotal.WithLabelValues("photo", "error").Inc()
			return nil, fmt.Errorf("store photo: %w", err)
		}
		record.StorageType = StorageLocal
		record.FileName = name

	default:
		return nil, fmt.Errorf("unknown photo storage mode %q", s.cfg.PhotoStorage)
	}

	created, err := s.photos.Append(ctx, func(id int) PhotoRecord {
		record.ID = id
		return record
	})
	if err != nil {
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues("photo", "ok").Inc()
	metrics.UploadBytesTotal.WithLabelValues("photo").Add(float64(record.FileSize))
	s.log.Info().Int("id", created.ID).Str("storage", created.StorageType).Msg("photo added")
	return &created, nil
}

// AddVideoParams is the author input for a new video.
type AddVideoParams struct {
	OriginalName string
	Date         string
	Caption      string
	Data         []byte
}

// AddVideo forwards the bytes to the blob store unchanged and appends the
// record.
func (s *Service) AddVideo(ctx context.Context, params AddVideoParams) (*VideoRecord, error) {
	if len(params.Data) == 0 {
		return nil, &ValidationError{Field: "file", Reason: "a video file is required"}
	}
	if int64(len(params.Data)) > s.cfg.MaxUploadBytes {
		return nil, &ValidationError{Field: "file", Reason: fmt.Sprintf("exceeds max size of %d bytes", s.cfg.MaxUploadBytes)}
	}
	if strings.TrimSpace(params.Caption) == "" {
		return nil, &ValidationError{Field: "caption", Reason: "caption must not be empty"}
	}
	date, err := parseDate(params.Date)
	if err != nil {
		return nil, err
	}

	mime := mimetype.Detect(params.Data)
	if !strings.HasPrefix(mime.String(), "video/") {
		return nil, &ValidationError{Field: "file", Reason: fmt.Sprintf("unsupported content type %s", mime.String())}
	}

	key := fmt.Sprintf("videos/%s%s", newBlobID(), mime.Extension())
	if err := s.blobs.Upload(ctx, key, bytes.NewReader(params.Data), int64(len(params.Data)), mime.String()); err != nil {
		metrics.UploadsTotal.WithLabelValues("video", "error").Inc()
		return nil, fmt.Errorf("upload video: %w", err)
	}
	url, err := s.blobs.PublicURL(key)
	if err != nil {
		return nil, fmt.Errorf("resolve video url: %w", err)
	}

	record := VideoRecord{
		OriginalName: filepath.Base(params.OriginalName),
		Date:         date,
		Caption:      strings.TrimSpace(params.Caption),
		UploadDate:   time.Now().Format(TimestampLayout),
		FileSize:     int64(len(params.Data)),
		StorageType:  StorageBlob,
		URL:          url,
		BlobID:       key,
	}

	created, err := s.videos.Append(ctx, func(id int) VideoRecord {
		record.ID = id
		return record
	})
	if err != nil {
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues("video", "ok").Inc()
	metrics.UploadBytesTotal.WithLabelValues("video").Add(float64(record.FileSize))
	s.log.Info().Int("id", created.ID).Str("key", key).Msg("video added")
	return &created, nil
}

// AddLetterParams is the author input for a new letter.
type AddLetterParams struct {
	Date    string
	Title   string
	Content string
}

func (s *Service) AddLetter(ctx context.Context, params AddLetterParams) (*LetterRecord, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if strings.TrimSpace(params.Content) == "" {
		return nil, &ValidationError{Field: "content", Reason: "content must not be empty"}
	}
	date, err := parseDate(params.Date)
	if err != nil {
		return nil, err
	}

	record := LetterRecord{
		Date:        date,
		Title:       strings.TrimSpace(params.Title),
		Content:     strings.TrimSpace(params.Content),
		CreatedDate: time.Now().Format(TimestampLayout),
	}

	created, err := s.letters.Append(ctx, func(id int) LetterRecord {
		record.ID = id
		return record
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("id", created.ID).Msg("letter added")
	return &created, nil
}

// AddEventParams is the author input for a new timeline event.
type AddEventParams struct {
	Date        string
	Title       string
	Description string
}

func (s *Service) AddEvent(ctx context.Context, params AddEventParams) (*TimelineEventRecord, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, &ValidationError{Field: "description", Reason: "description must not be empty"}
	}
	date, err := parseDate(params.Date)
	if err != nil {
		return nil, err
	}

	record := TimelineEventRecord{
		Date:        date,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
	}

	created, err := s.timeline.Append(ctx, func(int) TimelineEventRecord {
		return record
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("date", created.Date).Msg("timeline event added")
	return &created, nil
}

// ListPhotos returns photos sorted by display date, newest first.
func (s *Service) ListPhotos(ctx context.Context) []PhotoRecord {
	records := s.loadPhotos(ctx)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records
}

// ListVideos returns videos sorted by display date, newest first.
func (s *Service) ListVideos(ctx context.Context) []VideoRecord {
	records := s.loadVideos(ctx)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records
}

// ListLetters returns letters sorted by display date, newest first.
func (s *Service) ListLetters(ctx context.Context) []LetterRecord {
	records := s.loadLetters(ctx)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records
}

// ListTimeline returns timeline events in chronological order.
func (s *Service) ListTimeline(ctx context.Context) []TimelineEventRecord {
	records, err := s.timeline.Load(ctx)
	if err != nil {
		s.reportLoadError(err)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records
}

// DeletePhoto removes the first photo carrying the id and cascades to its
// out-of-band media. The document rewrite happens first; a cleanup failure
// afterwards is surfaced, never swallowed.
func (s *Service) DeletePhoto(ctx context.Context, id int) error {
	var removed PhotoRecord
	err := s.photos.Update(ctx, func(records []PhotoRecord) ([]PhotoRecord, error) {
		for i, rec := range records {
			if rec.ID == id {
				removed = rec
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: photo %d", ErrRecordNotFound, id)
	})
	if err != nil {
		return err
	}

	switch removed.StorageType {
	case StorageBlob:
		if err := s.blobs.Delete(ctx, removed.BlobID); err != nil {
			return fmt.Errorf("photo record removed but blob cleanup failed: %w", err)
		}
	case StorageLocal:
		if err := s.blobs.Delete(ctx, removed.FileName); err != nil {
			return fmt.Errorf("photo record removed but file cleanup failed: %w", err)
		}
	}

	s.log.Info().Int("id", id).Str("storage", removed.StorageType).Msg("photo deleted")
	return nil
}

// DeleteVideo removes the first video carrying the id and deletes its blob.
func (s *Service) DeleteVideo(ctx context.Context, id int) error {
	var removed VideoRecord
	err := s.videos.Update(ctx, func(records []VideoRecord) ([]VideoRecord, error) {
		for i, rec := range records {
			if rec.ID == id {
				removed = rec
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: video %d", ErrRecordNotFound, id)
	})
	if err != nil {
		return err
	}

	if removed.BlobID != "" {
		if err := s.blobs.Delete(ctx, removed.BlobID); err != nil {
			return fmt.Errorf("video record removed but blob cleanup failed: %w", err)
		}
	}

	s.log.Info().Int("id", id).Msg("video deleted")
	return nil
}

// DeleteLetter removes the first letter carrying the id.
func (s *Service) DeleteLetter(ctx context.Context, id int) error {
	err := s.letters.Update(ctx, func(records []LetterRecord) ([]LetterRecord, error) {
		for i, rec := range records {
			if rec.ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: letter %d", ErrRecordNotFound, id)
	})
	if err != nil {
		return err
	}
	s.log.Info().Int("id", id).Msg("letter deleted")
	return nil
}

// Surprise draws one record uniformly across photos with resolvable media,
// videos with a URL, and all letters.
func (s *Service) Surprise(ctx context.Context) (*Memory, error) {
	var memories []Memory

	for _, photo := range s.loadPhotos(ctx) {
		if photo.HasMedia() {
			p := photo
			memories = append(memories, Memory{Kind: KindPhoto, Photo: &p})
		}
	}
	for _, video := range s.loadVideos(ctx) {
		if video.URL != "" {
			v := video
			memories = append(memories, Memory{Kind: KindVideo, Video: &v})
		}
	}
	for _, letter := range s.loadLetters(ctx) {
		l := letter
		memories = append(memories, Memory{Kind: KindLetter, Letter: &l})
	}

	if len(memories) == 0 {
		return nil, ErrNoMemories
	}

	pick := memories[rand.Intn(len(memories))]
	return &pick, nil
}

// Bootstrap prepares the store on startup. Collections whose documents are
// absent are initialized to empty, and a brand-new letters document is
// seeded with a couple of sample letters so the journal never opens blank.
// Existing documents, corrupt ones included, are left alone.
func (s *Service) Bootstrap(ctx context.Context) error {
	lettersExist, err := s.letters.Exists(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap letters: %w", err)
	}
	if !lettersExist {
		if err := s.letters.Save(ctx, sampleLetters()); err != nil {
			return fmt.Errorf("bootstrap letters: %w", err)
		}
		s.log.Info().Msg("seeded sample letters")
	}

	if err := ensureDocument(ctx, s.photos); err != nil {
		return fmt.Errorf("bootstrap photos: %w", err)
	}
	if err := ensureDocument(ctx, s.videos); err != nil {
		return fmt.Errorf("bootstrap videos: %w", err)
	}
	if err := ensureDocument(ctx, s.timeline); err != nil {
		return fmt.Errorf("bootstrap timeline: %w", err)
	}
	return nil
}

func ensureDocument[T any](ctx context.Context, c *recordstore.Collection[T]) error {
	exists, err := c.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.Save(ctx, []T{})
}

func sampleLetters() []LetterRecord {
	now := time.Now().Format(TimestampLayout)
	return []LetterRecord{
		{
			ID:    1,
			Date:  "2023-01-01",
			Title: "New Year, New Us",
			Content: "My dearest love,\n\nAs we begin this new year together, I want you to know " +
				"how grateful I am for every moment we share. Here's to many more " +
				"adventures, laughter, and memories.\n\nForever yours",
			CreatedDate: now,
		},
		{
			ID:    2,
			Date:  "2023-06-15",
			Title: "Six Months of Magic",
			Content: "To my favorite person,\n\nSix months ago you walked into my life and " +
				"everything changed. Every day with you feels like a gift. Thank you " +
				"for being exactly who you are.\n\nWith all my love",
			CreatedDate: now,
		},
	}
}

func (s *Service) loadPhotos(ctx context.Context) []PhotoRecord {
	records, err := s.photos.Load(ctx)
	if err != nil {
		s.reportLoadError(err)
	}
	return records
}

func (s *Service) loadVideos(ctx context.Context) []VideoRecord {
	records, err := s.videos.Load(ctx)
	if err != nil {
		s.reportLoadError(err)
	}
	return records
}

func (s *Service) loadLetters(ctx context.Context) []LetterRecord {
	records, err := s.letters.Load(ctx)
	if err != nil {
		s.reportLoadError(err)
	}
	return records
}

// reportLoadError keeps the load-never-fails contract for readers while
// making the condition visible to operators. A corrupt document is data
// loss in waiting and logged at error level.
func (s *Service) reportLoadError(err error) {
	var corrupt *recordstore.CorruptError
	if errors.As(err, &corrupt) {
		s.log.Error().Err(err).Str("collection", corrupt.Collection).Msg("collection document is corrupt; serving empty")
		return
	}
	s.log.Error().Err(err).Msg("collection load failed; serving empty")
}

func parseDate(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Field: "date", Reason: "date must not be empty"}
	}
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return "", &ValidationError{Field: "date", Reason: "date must be formatted YYYY-MM-DD"}
	}
	return parsed.Format(DateLayout), nil
}

func newBlobID() string {
	return strings.ToLower(ulid.Make().String())
}
