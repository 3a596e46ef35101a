package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"memorylocker/internal/config"
	"memorylocker/internal/domain/journal"
	"memorylocker/internal/interfaces/httpserver/requests"
	"memorylocker/internal/interfaces/httpserver/responses"
)

// JournalHandler exposes the photo, video, letter, timeline and surprise
// endpoints.
type JournalHandler struct {
	cfg     *config.Config
	service *journal.Service
	log     zerolog.Logger
}

func NewJournalHandler(cfg *config.Config, service *journal.Service, log zerolog.Logger) *JournalHandler {
	return &JournalHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "journal-handler").Logger(),
	}
}

// ListPhotos returns photos newest first, chunked into three-column rows.
func (h *JournalHandler) ListPhotos(c *gin.Context) {
	records := h.service.ListPhotos(c.Request.Context())
	views := make([]responses.PhotoView, 0, len(records))
	for _, rec := range records {
		views = append(views, responses.NewPhotoView(rec, h.cfg.MediaBaseURL))
	}
	c.JSON(http.StatusOK, responses.NewPhotoGrid(views))
}

// UploadPhoto accepts a multipart photo upload.
func (h *JournalHandler) UploadPhoto(c *gin.Context) {
	data, name, err := h.readUpload(c)
	if err != nil {
		responses.HandleBadRequest(c, err)
		return
	}

	created, err := h.service.AddPhoto(c.Request.Context(), journal.AddPhotoParams{
		OriginalName: name,
		Date:         c.PostForm("date"),
		Caption:      c.PostForm("caption"),
		Data:         data,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("photo upload failed")
		responses.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, responses.NewPhotoView(*created, h.cfg.MediaBaseURL))
}

// DeletePhoto removes a photo and its stored media.
func (h *JournalHandler) DeletePhoto(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.HandleBadRequest(c, err)
		return
	}
	if err := h.service.DeletePhoto(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Int("id", id).Msg("photo delete failed")
		responses.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListVideos returns videos newest first, chunked into two-column rows.
func (h *JournalHandler) ListVideos(c *gin.Context) {
	records := h.service.ListVideos(c.Request.Context())
	views := make([]responses.VideoView, 0, len(records))
	for _, rec := range records {
		views = append(views, responses.NewVideoView(rec))
	}
	c.JSON(http.StatusOK, responses.NewVideoGrid(views))
}

// UploadVideo accepts a multipart video upload.
func (h *JournalHandler) UploadVideo(c *gin.Context) {
	data, name, err := h.readUpload(c)
	if err != nil {
		responses.HandleBadRequest(c, err)
		return
	}

	created, err := h.service.AddVideo(c.Request.Context(), journal.AddVideoParams{
		OriginalName: name,
		Date:         c.PostForm("date"),
		Caption:      c.PostForm("caption"),
		Data:         data,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("video upload failed")
		responses.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, responses.NewVideoView(*created))
}

// DeleteVideo removes a video and its blob.
func (h *JournalHandler) DeleteVideo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.HandleBadRequest(c, err)
		return
	}
	if err := h.service.DeleteVideo(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Int("id", id).Msg("video delete failed")
		responses.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLetters returns letters newest first.
func (h *JournalHandler) ListLetters(c *gin.Context) {
	records := h.service.ListLetters(c.Request.Context())
	views := make([]responses.LetterView, 0, len(records))
	for _, rec := range records {
		views = append(views, responses.NewLetterView(rec))
	}
	c.JSON(http.StatusOK, gin.H{"letters": views})
}

// CreateLetter adds a letter.
func (h *JournalHandler) CreateLetter(c *gin.Context) {
	var req requests.LetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleBadRequest(c, err)
		return
	}

	created, err := h.service.AddLetter(c.Request.Context(), journal.AddLetterParams{
		Date:    req.Date,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, responses.NewLetterView(*created))
}

// DeleteLetter removes a letter.
func (h *JournalHandler) DeleteLetter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.HandleBadRequest(c, err)
		return
	}
	if err := h.service.DeleteLetter(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTimeline returns timeline events oldest first.
func (h *JournalHandler) ListTimeline(c *gin.Context) {
	records := h.service.ListTimeline(c.Request.Context())
	views := make([]responses.EventView, 0, len(records))
	for _, rec := range records {
		views = append(views, responses.NewEventView(rec))
	}
	c.JSON(http.StatusOK, gin.H{"events": views})
}

// CreateEvent adds a timeline event.
func (h *JournalHandler) CreateEvent(c *gin.Context) {
	var req requests.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleBadRequest(c, err)
		return
	}

	created, err := h.service.AddEvent(c.Request.Context(), journal.AddEventParams{
		Date:        req.Date,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, responses.NewEventView(*created))
}

// Surprise draws one random memory across all collections.
func (h *JournalHandler) Surprise(c *gin.Context) {
	memory, err := h.service.Surprise(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewSurpriseResponse(memory, h.cfg.MediaBaseURL))
}

// readUpload pulls the multipart file, capped at the configured limit plus
// one byte so oversize payloads are still detected by the service.
func (h *JournalHandler) readUpload(c *gin.Context) ([]byte, string, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}
