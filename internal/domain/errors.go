package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so errors built with WithError still compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// WithMessage returns a copy carrying a different user-facing message.
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrMissingField = &AppError{
		Code:       "MISSING_FIELD",
		Message:    "Missing name or image",
		StatusCode: 400,
	}

	ErrDecodeImage = &AppError{
		Code:       "DECODE_ERROR",
		Message:    "Image decode failed",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrInvalidName = &AppError{
		Code:       "INVALID_NAME",
		Message:    "Name must be a plain file name",
		StatusCode: 422,
	}

	ErrIOFailure = &AppError{
		Code:       "IO_FAILURE",
		Message:    "Failed to read or write attendance data",
		StatusCode: 500,
	}

	// ErrGalleryReload means the registration image is on disk but the gallery
	// still holds the old snapshot; the next successful reload picks it up.
	ErrGalleryReload = &AppError{
		Code:       "GALLERY_RELOAD_FAILED",
		Message:    "Image stored, but the gallery could not be reloaded",
		StatusCode: 503,
	}

	ErrProviderUnavailable = &AppError{
		Code:       "PROVIDER_UNAVAILABLE",
		Message:    "Face recognition provider unavailable",
		StatusCode: 503,
	}

	ErrFaceImageNotFound = &AppError{
		Code:       "FACE_NOT_FOUND",
		Message:    "Face image not found",
		StatusCode: 404,
	}

	ErrInvalidDate = &AppError{
		Code:       "INVALID_DATE",
		Message:    "Date must use the YYYY-MM-DD format",
		StatusCode: 400,
	}
)
