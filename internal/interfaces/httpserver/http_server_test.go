package httpserver

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorylocker/internal/config"
	"memorylocker/internal/domain/auth"
	"memorylocker/internal/domain/journal"
	"memorylocker/internal/domain/media"
	"memorylocker/internal/infrastructure/recordstore"
	"memorylocker/internal/testsupport"
)

type testServer struct {
	engine      *gin.Engine
	authorToken string
	readerToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServiceName:     "memory-locker",
		Environment:     "test",
		AuthorSecret:    "admin123",
		ReaderSecret:    "love123",
		PhotoStorage:    config.PhotoStorageInline,
		MaxUploadBytes:  20 * 1024 * 1024,
		ShutdownTimeout: time.Second,
	}

	backend, err := recordstore.NewFileBackend(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	blobs := testsupport.NewMemoryStorage()
	gate := auth.NewGate(cfg, zerolog.Nop())
	service := journal.NewService(cfg, backend, blobs, media.NewNormalizer(zerolog.Nop()), zerolog.Nop())

	server := New(cfg, zerolog.Nop(), service, gate, blobs)

	ts := &testServer{engine: server.Engine()}
	ts.authorToken = ts.login(t, "author", "admin123")
	ts.readerToken = ts.login(t, "reader", "love123")
	return ts
}

func (ts *testServer) login(t *testing.T, role, secret string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"role": role, "secret": secret})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ts.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func multipartUpload(t *testing.T, fileName string, fileData []byte, fields map[string]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(fileData)
	require.NoError(t, err)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return buf.Bytes(), writer.FormDataContentType()
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.NRGBA{R: 90, G: 140, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestLoginRejectsWrongSecret(t *testing.T) {
	ts := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"role": "author", "secret": "wrong"})
	rec := ts.do(t, http.MethodPost, "/v1/auth/login", "", body, "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReadsRequireSession(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/v1/photos", "/v1/videos", "/v1/letters", "/v1/timeline", "/v1/surprise"} {
		rec := ts.do(t, http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestReaderCannotWrite(t *testing.T) {
	ts := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"date": "2024-01-01", "title": "t", "content": "c"})
	rec := ts.do(t, http.MethodPost, "/v1/letters", ts.readerToken, body, "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/v1/photos/1", ts.readerToken, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLetterLifecycle(t *testing.T) {
	ts := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"date": "2024-04-01", "title": "hello", "content": "world"})
	rec := ts.do(t, http.MethodPost, "/v1/letters", ts.authorToken, body, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)

	// Readers can see it.
	rec = ts.do(t, http.MethodGet, "/v1/letters", ts.readerToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Letters []struct {
			Title string `json:"title"`
		} `json:"letters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Letters, 1)
	assert.Equal(t, "hello", listed.Letters[0].Title)

	rec = ts.do(t, http.MethodDelete, "/v1/letters/1", ts.authorToken, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/v1/letters/1", ts.authorToken, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPhotoUploadAndGrid(t *testing.T) {
	ts := newTestServer(t)
	img := testJPEG(t)

	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"} {
		body, contentType := multipartUpload(t, "p.jpg", img, map[string]string{
			"date":    date,
			"caption": "day " + date,
		})
		rec := ts.do(t, http.MethodPost, "/v1/photos", ts.authorToken, body, contentType)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := ts.do(t, http.MethodGet, "/v1/photos", ts.readerToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var grid struct {
		Photos []struct {
			Date string `json:"date"`
			Src  string `json:"src"`
		} `json:"photos"`
		Rows    []json.RawMessage `json:"rows"`
		Columns int               `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grid))

	require.Len(t, grid.Photos, 4)
	assert.Equal(t, "2024-01-04", grid.Photos[0].Date, "newest first")
	assert.Contains(t, grid.Photos[0].Src, "data:image/jpeg;base64,")
	assert.Equal(t, 3, grid.Columns)
	assert.Len(t, grid.Rows, 2, "four photos chunk into a full row plus one")
}

func TestPhotoUploadValidation(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartUpload(t, "p.jpg", testJPEG(t), map[string]string{
		"date": "2024-01-01",
		// caption missing
	})
	rec := ts.do(t, http.MethodPost, "/v1/photos", ts.authorToken, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVideoUploadRejectsNonVideo(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartUpload(t, "v.mp4", testJPEG(t), map[string]string{
		"date":    "2024-01-01",
		"caption": "not a video",
	})
	rec := ts.do(t, http.MethodPost, "/v1/videos", ts.authorToken, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimelineEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, date := range []string{"2023-05-01", "2021-01-01"} {
		body, _ := json.Marshal(map[string]string{"date": date, "title": "t", "description": "d"})
		rec := ts.do(t, http.MethodPost, "/v1/timeline", ts.authorToken, body, "application/json")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := ts.do(t, http.MethodGet, "/v1/timeline", ts.readerToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Events []struct {
			Date string `json:"date"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Events, 2)
	assert.Equal(t, "2021-01-01", listed.Events[0].Date, "oldest first")
}

func TestSurprise(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/v1/surprise", ts.readerToken, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "empty journal has nothing to draw")

	body, _ := json.Marshal(map[string]string{"date": "2024-01-01", "title": "t", "content": "c"})
	created := ts.do(t, http.MethodPost, "/v1/letters", ts.authorToken, body, "application/json")
	require.Equal(t, http.StatusCreated, created.Code)

	rec = ts.do(t, http.MethodGet, "/v1/surprise", ts.readerToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Kind   string `json:"kind"`
		Letter *struct {
			Title string `json:"title"`
		} `json:"letter"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "letter", resp.Kind)
	require.NotNil(t, resp.Letter)
	assert.Equal(t, "t", resp.Letter.Title)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/v1/auth/logout", ts.readerToken, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/letters", ts.readerToken, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCoreRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/readyz", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memory-locker")

	rec = ts.do(t, http.MethodGet, "/metrics", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
