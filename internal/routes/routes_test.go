package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/imagefolders/internal/app"
	"github.com/templui/imagefolders/internal/config"
	"github.com/templui/imagefolders/internal/model"
	"github.com/templui/imagefolders/internal/service"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}, make([]byte, 128)...)

type testServer struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppEnv:              "development",
		DBDriver:            "sqlite",
		DBConnection:        filepath.Join(t.TempDir(), "app.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		StoreTimeout:        5 * time.Second,
		JWTSecret:           "test-secret",
		CORSOrigins:         []string{"http://localhost:3000"},
		StorageDriver:       config.StorageDriverLocal,
		UploadDir:           t.TempDir(),
		MaxUploadSize:       10 << 20,
		UploadRatePerMinute: 100,
	}

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	token, err := a.AuthService.GenerateJWT("user-1", time.Hour)
	require.NoError(t, err)

	return &testServer{t: t, handler: SetupRoutes(a), token: token}
}

func (s *testServer) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createFolder(name string, parent *string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(map[string]any{"name": name, "parentFolder": parent})
	require.NoError(s.t, err)
	return s.do(http.MethodPost, "/api/folders", bytes.NewReader(payload), "application/json")
}

func (s *testServer) upload(name, filename, folderID string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(s.t, mw.WriteField("name", name))
	require.NoError(s.t, mw.WriteField("folderId", folderID))
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	return s.do(http.MethodPost, "/api/images/upload", &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["code"]
}

func TestFolderImageLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.createFolder("Trips", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	trips := decode[model.Folder](t, rec)
	assert.Equal(t, "/", trips.Path)

	rec = s.createFolder("2024", &trips.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	year := decode[model.Folder](t, rec)
	assert.Equal(t, "/Trips", year.Path)

	rec = s.createFolder("Trips", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_name", errorCode(t, rec))

	rec = s.upload("cat.png", "cat.png", trips.ID, pngBytes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	uploaded := decode[struct {
		Message string      `json:"message"`
		Image   model.Image `json:"image"`
	}](t, rec)
	cat := uploaded.Image
	assert.Equal(t, "/uploads/images/"+cat.StorageKey, cat.URL)

	// Listing by folder carries the folder name
	rec = s.do(http.MethodGet, "/api/images?folderId="+trips.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]model.Image](t, rec)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].FolderName)
	assert.Equal(t, "Trips", *listed[0].FolderName)

	// Root-only listing excludes it, unfiltered listing includes it
	rec = s.do(http.MethodGet, "/api/images?folderId=", nil, "")
	assert.Empty(t, decode[[]model.Image](t, rec))
	rec = s.do(http.MethodGet, "/api/images?search=CAT", nil, "")
	assert.Len(t, decode[[]model.Image](t, rec), 1)

	// Payload is served publicly
	rec = s.do(http.MethodGet, cat.URL, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())

	rec = s.do(http.MethodDelete, "/api/folders/"+trips.ID, nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_empty", errorCode(t, rec))

	rec = s.do(http.MethodDelete, "/api/images/"+cat.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, cat.URL, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/images/"+cat.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Still blocked by the child folder
	rec = s.do(http.MethodDelete, "/api/folders/"+trips.ID, nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodDelete, "/api/folders/"+year.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodDelete, "/api/folders/"+trips.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/folders", nil, "")
	assert.Empty(t, decode[[]model.Folder](t, rec))
}

func TestUploadRejections(t *testing.T) {
	s := newTestServer(t)

	t.Run("unknown folder", func(t *testing.T) {
		rec := s.upload("cat", "cat.png", "missing", pngBytes)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "folder_not_found", errorCode(t, rec))
	})

	t.Run("not an image", func(t *testing.T) {
		rec := s.upload("notes", "notes.png", "", []byte("hello world"))
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Equal(t, "unsupported_payload_type", errorCode(t, rec))
	})

	t.Run("missing name", func(t *testing.T) {
		rec := s.upload("", "cat.png", "", pngBytes)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_name", errorCode(t, rec))
	})

	t.Run("missing file", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/images/upload", strings.NewReader("name=x"), "application/x-www-form-urlencoded")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec := s.do(http.MethodGet, "/api/images", nil, "")
	assert.Empty(t, decode[[]model.Image](t, rec))
}

func TestFolderErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.createFolder("a/b", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_name", errorCode(t, rec))

	missing := "missing"
	rec = s.createFolder("x", &missing)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "parent_not_found", errorCode(t, rec))

	rec = s.do(http.MethodGet, "/api/folders/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = s.do(http.MethodPost, "/api/folders", strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", errorCode(t, rec))
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	for _, target := range []string{"/api/folders", "/api/images"} {
		rec := s.do(http.MethodGet, target, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	s.token = "forged"
	rec := s.do(http.MethodGet, "/api/folders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOwnersAreIsolated(t *testing.T) {
	s := newTestServer(t)

	rec := s.createFolder("Private", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	folder := decode[model.Folder](t, rec)

	other := &testServer{t: t, handler: s.handler}
	other.token = signedFor(t, "user-2")

	rec = other.do(http.MethodGet, "/api/folders/"+folder.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = other.do(http.MethodGet, "/api/folders", nil, "")
	assert.Empty(t, decode[[]model.Folder](t, rec))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec := s.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func signedFor(t *testing.T, owner string) string {
	t.Helper()
	token, err := service.NewAuthService("test-secret").GenerateJWT(owner, time.Hour)
	require.NoError(t, err)
	return token
}
