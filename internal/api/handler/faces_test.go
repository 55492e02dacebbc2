package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) FaceImagePath(filename string) (string, error) {
	args := m.Called(filename)
	return args.String(0), args.Error(1)
}

func (m *MockGalleryService) Gallery() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func setupGalleryApp(svc GalleryService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(testLogger())})
	h := NewGalleryHandler(svc)
	app.Get("/faces/:filename", h.FaceImage)
	app.Get("/gallery", h.List)
	return app
}

func TestGalleryHandler_FaceImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alice.png")
	require.NoError(t, os.WriteFile(path, []byte("png bytes"), 0o644))

	m := new(MockGalleryService)
	m.On("FaceImagePath", "alice.png").Return(path, nil)
	m.On("FaceImagePath", "bob.png").Return("", domain.ErrFaceImageNotFound)
	app := setupGalleryApp(m)

	resp, err := app.Test(httptest.NewRequest("GET", "/faces/alice.png", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "png bytes", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/faces/bob.png", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGalleryHandler_List(t *testing.T) {
	m := new(MockGalleryService)
	m.On("Gallery").Return([]string{"alice", "bob"})

	resp, err := setupGalleryApp(m).Test(httptest.NewRequest("GET", "/gallery", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body GalleryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, GalleryResponse{Names: []string{"alice", "bob"}, Count: 2}, body)
}

func TestPageHandler_Index(t *testing.T) {
	app := fiber.New()
	app.Get("/", NewPageHandler([]byte("<html>ponto</html>")).Index)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
