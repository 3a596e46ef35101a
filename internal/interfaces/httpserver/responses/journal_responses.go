// Package responses shapes journal records into API views and lays out the
// grids the client renders.
package responses

import (
	"strings"

	"memorylocker/internal/domain/journal"
)

// Grid column counts for the media pages.
const (
	PhotoGridColumns = 3
	VideoGridColumns = 2
)

// PhotoView is the API shape of one photo. Src resolves to whatever the
// record's storage variant can serve: a data URL for inline payloads, the
// blob URL otherwise.
type PhotoView struct {
	ID           int    `json:"id"`
	OriginalName string `json:"original_name"`
	Date         string `json:"date"`
	Caption      string `json:"caption"`
	UploadDate   string `json:"upload_date"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	StorageType  string `json:"storage_type"`
	Src          string `json:"src,omitempty"`
}

// VideoView is the API shape of one video.
type VideoView struct {
	ID           int    `json:"id"`
	OriginalName string `json:"original_name"`
	Date         string `json:"date"`
	Caption      string `json:"caption"`
	UploadDate   string `json:"upload_date"`
	Src          string `json:"src,omitempty"`
}

// LetterView is the API shape of one letter.
type LetterView struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	CreatedDate string `json:"created_date"`
}

// EventView is the API shape of one timeline event.
type EventView struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewPhotoView maps a record to its view. Local files are served through
// the files route, so their src is built from the media base URL.
func NewPhotoView(p journal.PhotoRecord, mediaBaseURL string) PhotoView {
	view := PhotoView{
		ID:           p.ID,
		OriginalName: p.OriginalName,
		Date:         p.Date,
		Caption:      p.Caption,
		UploadDate:   p.UploadDate,
		Width:        p.Width,
		Height:       p.Height,
		StorageType:  p.StorageType,
	}

	switch {
	case p.Base64Data != "":
		view.Src = "data:image/jpeg;base64," + p.Base64Data
	case p.URL != "":
		view.Src = p.URL
	case p.FileName != "":
		view.Src = joinURL(mediaBaseURL, p.FileName)
	}
	return view
}

func NewVideoView(v journal.VideoRecord) VideoView {
	return VideoView{
		ID:           v.ID,
		OriginalName: v.OriginalName,
		Date:         v.Date,
		Caption:      v.Caption,
		UploadDate:   v.UploadDate,
		Src:          v.URL,
	}
}

func NewLetterView(l journal.LetterRecord) LetterView {
	return LetterView{
		ID:          l.ID,
		Date:        l.Date,
		Title:       l.Title,
		Content:     l.Content,
		CreatedDate: l.CreatedDate,
	}
}

func NewEventView(e journal.TimelineEventRecord) EventView {
	return EventView{Date: e.Date, Title: e.Title, Description: e.Description}
}

// PhotoGridResponse carries the photo views pre-chunked into display rows.
type PhotoGridResponse struct {
	Photos  []PhotoView   `json:"photos"`
	Rows    [][]PhotoView `json:"rows"`
	Columns int           `json:"columns"`
}

// VideoGridResponse carries the video views pre-chunked into display rows.
type VideoGridResponse struct {
	Videos  []VideoView   `json:"videos"`
	Rows    [][]VideoView `json:"rows"`
	Columns int           `json:"columns"`
}

// NewPhotoGrid chunks the ordered views into rows of PhotoGridColumns. The
// final row may be shorter.
func NewPhotoGrid(views []PhotoView) PhotoGridResponse {
	return PhotoGridResponse{
		Photos:  views,
		Rows:    chunk(views, PhotoGridColumns),
		Columns: PhotoGridColumns,
	}
}

// NewVideoGrid chunks the ordered views into rows of VideoGridColumns.
func NewVideoGrid(views []VideoView) VideoGridResponse {
	return VideoGridResponse{
		Videos:  views,
		Rows:    chunk(views, VideoGridColumns),
		Columns: VideoGridColumns,
	}
}

func chunk[T any](items []T, size int) [][]T {
	rows := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		rows = append(rows, items[start:end])
	}
	return rows
}

// SurpriseResponse is one randomly drawn memory, tagged with its kind.
// Exactly one of the views is present.
type SurpriseResponse struct {
	Kind   string      `json:"kind"`
	Photo  *PhotoView  `json:"photo,omitempty"`
	Video  *VideoView  `json:"video,omitempty"`
	Letter *LetterView `json:"letter,omitempty"`
}

// NewSurpriseResponse maps the drawn memory into its view.
func NewSurpriseResponse(m *journal.Memory, mediaBaseURL string) SurpriseResponse {
	resp := SurpriseResponse{Kind: string(m.Kind)}
	switch m.Kind {
	case journal.KindPhoto:
		view := NewPhotoView(*m.Photo, mediaBaseURL)
		resp.Photo = &view
	case journal.KindVideo:
		view := NewVideoView(*m.Video)
		resp.Video = &view
	case journal.KindLetter:
		view := NewLetterView(*m.Letter)
		resp.Letter = &view
	}
	return resp
}

func joinURL(base, name string) string {
	if base == "" {
		return "/v1/files/" + name
	}
	return strings.TrimRight(base, "/") + "/" + name
}
