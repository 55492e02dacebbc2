package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// MockAttendanceService is a mock implementation of AttendanceService
type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) Recognize(ctx context.Context, image []byte) ([]string, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAttendanceService) Register(ctx context.Context, name string, image []byte) error {
	args := m.Called(ctx, name, image)
	return args.Error(0)
}

// testLogger returns a logger that discards all output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var imageBytes = []byte("fake image bytes")

func dataURL(b []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(b)
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) map[string]any {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func setupAttendanceApp(svc AttendanceService) *fiber.App {
	app := fiber.New()
	h := NewAttendanceHandler(svc, testLogger())
	app.Post("/upload", h.Upload)
	app.Post("/register", h.Register)
	return app
}

func TestAttendanceHandler_Upload(t *testing.T) {
	tests := []struct {
		name        string
		form        url.Values
		mockSetup   func(m *MockAttendanceService)
		wantResults []any
		wantCode    string
	}{
		{
			name: "recognized faces",
			form: url.Values{"image": {dataURL(imageBytes)}},
			mockSetup: func(m *MockAttendanceService) {
				m.On("Recognize", mock.Anything, imageBytes).Return([]string{"alice", "Unknown"}, nil)
			},
			wantResults: []any{"alice", "Unknown"},
		},
		{
			name:        "missing image",
			form:        url.Values{},
			mockSetup:   func(m *MockAttendanceService) {},
			wantResults: []any{},
			wantCode:    "MISSING_FIELD",
		},
		{
			name:        "bad base64",
			form:        url.Values{"image": {"data:image/png;base64,!!!"}},
			mockSetup:   func(m *MockAttendanceService) {},
			wantResults: []any{},
			wantCode:    "DECODE_ERROR",
		},
		{
			name: "no face",
			form: url.Values{"image": {dataURL(imageBytes)}},
			mockSetup: func(m *MockAttendanceService) {
				m.On("Recognize", mock.Anything, imageBytes).Return(nil, domain.ErrNoFaceDetected)
			},
			wantResults: []any{},
			wantCode:    "NO_FACE_DETECTED",
		},
		{
			name: "io failure",
			form: url.Values{"image": {dataURL(imageBytes)}},
			mockSetup: func(m *MockAttendanceService) {
				m.On("Recognize", mock.Anything, imageBytes).Return(nil, domain.ErrIOFailure.WithError(errors.New("disk full")))
			},
			wantResults: []any{},
			wantCode:    "IO_FAILURE",
		},
		{
			name: "unexpected error",
			form: url.Values{"image": {dataURL(imageBytes)}},
			mockSetup: func(m *MockAttendanceService) {
				m.On("Recognize", mock.Anything, imageBytes).Return(nil, errors.New("boom"))
			},
			wantResults: []any{},
			wantCode:    "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockAttendanceService)
			tt.mockSetup(m)

			body := postForm(t, setupAttendanceApp(m), "/upload", tt.form)

			assert.Equal(t, tt.wantResults, body["results"])
			if tt.wantCode == "" {
				assert.NotContains(t, body, "error")
			} else {
				errBody, ok := body["error"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, errBody["code"])
			}
			m.AssertExpectations(t)
		})
	}
}

func TestAttendanceHandler_Register(t *testing.T) {
	tests := []struct {
		name        string
		form        url.Values
		mockSetup   func(m *MockAttendanceService)
		wantSuccess bool
		wantMessage string
		wantCode    string
	}{
		{
			name: "registered",
			form: url.Values{"name": {" alice "}, "image": {dataURL(imageBytes)}},
			mockSetup: func(m *MockAttendanceService) {
				m.On("Register", mock.Anything, "alice", imageBytes).Return(nil)
			},
			wantSuccess: true,
			wantMessage: "Registered alice",
		},
		{
			name:        "missing name",
			form:        url.Values{"image": {dataURL(imageBytes)}},
			mockSetup:   func(m *MockAttendanceService) {},
			wantMessage: "Missing name or image",
			wantCode:    "MISSING_FIELD",
		},
		{
			name:        "image without separator",
			form:        url.Values{"name": {"alice"}, "image": {"abc"}},
			mockSetup:   func(m *MockAttendanceService) {},
			wantMessage: "Missing name or image",
			wantCode:    "MISSING_FIELD",
		},
		{
			name:        "undecodable",
			form:        url.Values{"name": {"alice"}, "image": {"data:image/png;base64,%%%"}},
			mockSetup:   func(m *MockAttendanceService) {},
			wantMessage: "Image decode failed",
			wantCode:    "DECODE_ERROR",
		},
		{
			name: "no face",
			form: url.Values{"name": {"alice"}, "image": {dataURL(imageBytes)}},
			mockSetup: func(m *MockAttendanceService) {
				m.On("Register", mock.Anything, "alice", imageBytes).
					Return(domain.ErrNoFaceDetected.WithMessage("No face detected in registration image"))
			},
			wantMessage: "No face detected in registration image",
			wantCode:    "NO_FACE_DETECTED",
		},
		{
			name: "storage failure",
			form: url.Values{"name": {"alice"}, "image": {dataURL(imageBytes)}},
			mockSetup: func(m *MockAttendanceService) {
				m.On("Register", mock.Anything, "alice", imageBytes).Return(domain.ErrIOFailure.WithError(errors.New("read-only fs")))
			},
			wantMessage: "Error during registration",
			wantCode:    "IO_FAILURE",
		},
		{
			name: "stored but gallery not reloaded",
			form: url.Values{"name": {"alice"}, "image": {dataURL(imageBytes)}},
			mockSetup: func(m *MockAttendanceService) {
				m.On("Register", mock.Anything, "alice", imageBytes).
					Return(domain.ErrGalleryReload.WithMessage("Image for alice stored; it will be recognized after the next gallery reload"))
			},
			wantMessage: "Image for alice stored; it will be recognized after the next gallery reload",
			wantCode:    "GALLERY_RELOAD_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockAttendanceService)
			tt.mockSetup(m)

			body := postForm(t, setupAttendanceApp(m), "/register", tt.form)

			assert.Equal(t, tt.wantSuccess, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
			if tt.wantCode != "" {
				errBody, ok := body["error"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, errBody["code"])
			}
			m.AssertExpectations(t)
		})
	}
}
