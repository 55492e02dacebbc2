package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/ponto/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/imaging"
)

// AttendanceService interface for the service
type AttendanceService interface {
	Recognize(ctx context.Context, image []byte) ([]string, error)
	Register(ctx context.Context, name string, image []byte) error
}

// AttendanceHandler serves the kiosk endpoints. Both answer 200 with a
// failure body so the browser page can render every outcome the same way.
type AttendanceHandler struct {
	service AttendanceService
	logger  *slog.Logger
}

func NewAttendanceHandler(service AttendanceService, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger,
	}
}

// ErrorBody carries the machine-readable failure kind.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UploadResponse response for upload endpoint
type UploadResponse struct {
	Results []string   `json:"results"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// RegisterResponse response for register endpoint
type RegisterResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Upload POST /upload - recognize every face in a data-URL snapshot
func (h *AttendanceHandler) Upload(c *fiber.Ctx) error {
	image, err := imaging.ParseDataURL(c.FormValue("image"))
	if err != nil {
		return h.uploadFailed(c, err)
	}

	results, err := h.service.Recognize(c.Context(), image)
	if err != nil {
		return h.uploadFailed(c, err)
	}

	return c.JSON(UploadResponse{Results: results})
}

// Register POST /register - store a reference face for a name
func (h *AttendanceHandler) Register(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	dataURL := c.FormValue("image")
	if name == "" || !strings.Contains(dataURL, ",") {
		return h.registerFailed(c, domain.ErrMissingField)
	}

	image, err := imaging.ParseDataURL(dataURL)
	if err != nil {
		return h.registerFailed(c, err)
	}

	if err := h.service.Register(c.Context(), name, image); err != nil {
		return h.registerFailed(c, err)
	}

	return c.JSON(RegisterResponse{
		Success: true,
		Message: "Registered " + name,
	})
}

func (h *AttendanceHandler) uploadFailed(c *fiber.Ctx, err error) error {
	appErr := h.classify(c, "upload", err)
	return c.JSON(UploadResponse{
		Results: []string{},
		Error:   &ErrorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

func (h *AttendanceHandler) registerFailed(c *fiber.Ctx, err error) error {
	appErr := h.classify(c, "register", err)

	message := appErr.Message
	if appErr.StatusCode >= fiber.StatusInternalServerError && !errors.Is(appErr, domain.ErrGalleryReload) {
		message = "Error during registration"
	}

	return c.JSON(RegisterResponse{
		Success: false,
		Message: message,
		Error:   &ErrorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

// classify maps err to an AppError and logs it at a level matching its kind.
func (h *AttendanceHandler) classify(c *fiber.Ctx, op string, err error) *domain.AppError {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.ErrInternal.WithError(err)
	}

	if appErr.StatusCode >= fiber.StatusInternalServerError {
		h.logger.Error(op+" failed",
			slog.String("code", appErr.Code),
			slog.Any("error", err),
			slog.String("request_id", middleware.RequestID(c)),
		)
	} else {
		h.logger.Info(op+" rejected",
			slog.String("code", appErr.Code),
			slog.Any("error", err),
			slog.String("request_id", middleware.RequestID(c)),
		)
	}

	return appErr
}
