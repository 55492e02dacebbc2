package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/gallery"
	"github.com/saturnino-fabrica-de-software/ponto/internal/imaging"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ws"
)

type GalleryStore interface {
	Snapshot() *gallery.Snapshot
	Reload(ctx context.Context) (*gallery.Snapshot, error)
	Match(query []float64) gallery.Result
}

type AttendanceRecorder interface {
	Record(ctx context.Context, name string, at time.Time) (bool, error)
}

type SummaryBuilder interface {
	Rebuild(ctx context.Context, date time.Time) ([]domain.SummaryRow, error)
	List(ctx context.Context, date time.Time) ([]domain.SummaryRow, error)
}

// EventPublisher receives attendance activity for the live feed. Publish must not block.
type EventPublisher interface {
	Publish(eventType ws.EventType, data any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ws.EventType, any) {}

var galleryExtensions = []string{".jpg", ".jpeg", ".png"}

type AttendanceService struct {
	encoder  provider.FaceEncoder
	gallery  GalleryStore
	recorder AttendanceRecorder
	summary  SummaryBuilder
	events   EventPublisher
	facesDir string
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewAttendanceService(
	encoder provider.FaceEncoder,
	galleryStore GalleryStore,
	recorder AttendanceRecorder,
	summary SummaryBuilder,
	facesDir string,
	logger *slog.Logger,
) *AttendanceService {
	return &AttendanceService{
		encoder:  encoder,
		gallery:  galleryStore,
		recorder: recorder,
		summary:  summary,
		events:   noopPublisher{},
		facesDir: facesDir,
		loc:      time.Local,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *AttendanceService) WithLocation(loc *time.Location) *AttendanceService {
	s.loc = loc
	return s
}

func (s *AttendanceService) WithPublisher(p EventPublisher) *AttendanceService {
	s.events = p
	return s
}

func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// Today is the current time in the service's location.
func (s *AttendanceService) Today() time.Time {
	return s.now().In(s.loc)
}

// Recognize identifies every face in image, in detection order. Each accepted
// match is written to the attendance log and the day's summary is rebuilt.
// If logging or summarising fails the whole call fails.
func (s *AttendanceService) Recognize(ctx context.Context, image []byte) ([]string, error) {
	if len(image) == 0 {
		return nil, domain.ErrMissingField
	}
	if _, err := imaging.Sniff(image); err != nil {
		return nil, err
	}

	faces, err := s.encode(ctx, image)
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	now := s.Today()
	results := make([]string, 0, len(faces))
	recorded := 0
	for i, face := range faces {
		match := s.gallery.Match(face.Encoding)
		results = append(results, match.Name)

		s.logger.Debug("face matched",
			"face", i,
			"name", match.Name,
			"distance", match.Distance,
			"accepted", match.Matched,
		)

		if !match.Matched {
			continue
		}
		ok, err := s.recorder.Record(ctx, match.Name, now)
		if err != nil {
			return nil, domain.ErrIOFailure.WithError(err)
		}
		if ok {
			recorded++
			s.events.Publish(ws.EventCheckIn, ws.CheckIn{
				Name:     match.Name,
				LoggedAt: now.Format(domain.TimestampLayout),
			})
		}
	}

	if recorded > 0 {
		rows, err := s.summary.Rebuild(ctx, now)
		if err != nil {
			return nil, domain.ErrIOFailure.WithError(err)
		}
		s.publishRebuilt(now, rows)
	}

	s.logger.Info("recognition completed", "faces", len(faces), "recorded", recorded)

	return results, nil
}

// Register stores image as the reference face of name and reloads the gallery.
// An existing image for the same name is replaced.
func (s *AttendanceService) Register(ctx context.Context, name string, image []byte) error {
	name = strings.TrimSpace(name)
	if name == "" || len(image) == 0 {
		return domain.ErrMissingField
	}
	if err := validateName(name); err != nil {
		return err
	}

	data, ext, err := imaging.Normalize(image)
	if err != nil {
		return err
	}

	faces, err := s.encode(ctx, data)
	if err != nil {
		return err
	}
	if len(faces) == 0 {
		return domain.ErrNoFaceDetected.WithMessage("No face detected in registration image")
	}

	if err := s.writeFaceImage(name, ext, data); err != nil {
		return domain.ErrIOFailure.WithError(err)
	}

	snap, err := s.gallery.Reload(ctx)
	if err != nil {
		return domain.ErrGalleryReload.
			WithError(fmt.Errorf("reload gallery: %w", err)).
			WithMessage(fmt.Sprintf("Image for %s stored; it will be recognized after the next gallery reload", name))
	}

	s.logger.Info("face registered", "name", name, "file", name+ext, "gallery_size", snap.Len())
	s.events.Publish(ws.EventFaceRegistered, ws.FaceRegistered{Name: name, GallerySize: snap.Len()})

	return nil
}

// Summary lists the stored summary rows of date's day.
func (s *AttendanceService) Summary(ctx context.Context, date time.Time) ([]domain.SummaryRow, error) {
	rows, err := s.summary.List(ctx, date.In(s.loc))
	if err != nil {
		return nil, domain.ErrIOFailure.WithError(err)
	}
	return rows, nil
}

// RebuildSummary re-aggregates date's day from the attendance log.
func (s *AttendanceService) RebuildSummary(ctx context.Context, date time.Time) ([]domain.SummaryRow, error) {
	rows, err := s.summary.Rebuild(ctx, date.In(s.loc))
	if err != nil {
		return nil, domain.ErrIOFailure.WithError(err)
	}
	s.publishRebuilt(date.In(s.loc), rows)
	return rows, nil
}

func (s *AttendanceService) publishRebuilt(date time.Time, rows []domain.SummaryRow) {
	s.events.Publish(ws.EventSummaryRebuilt, ws.SummaryRebuilt{
		Date: date.Format(domain.DateLayout),
		Rows: len(rows),
	})
}

// Gallery returns the names currently loaded.
func (s *AttendanceService) Gallery() []string {
	return s.gallery.Snapshot().Names()
}

// Ready reports whether the gallery finished its first load.
func (s *AttendanceService) Ready() bool {
	return s.gallery.Snapshot() != nil
}

// ParseDate reads a YYYY-MM-DD date in the service's location; empty means today.
func (s *AttendanceService) ParseDate(value string) (time.Time, error) {
	if value == "" {
		return s.Today(), nil
	}
	date, err := time.ParseInLocation(domain.DateLayout, value, s.loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate.WithError(err)
	}
	return date, nil
}

// FaceImagePath resolves a stored gallery file. Only plain file names with a
// gallery extension are accepted.
func (s *AttendanceService) FaceImagePath(filename string) (string, error) {
	if validateName(filename) != nil || !imaging.IsGalleryFile(filename) {
		return "", domain.ErrFaceImageNotFound
	}

	path := filepath.Join(s.facesDir, filename)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", domain.ErrFaceImageNotFound
	}
	return path, nil
}

func (s *AttendanceService) encode(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	faces, err := s.encoder.Encode(ctx, image)
	if err == nil {
		return faces, nil
	}

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return nil, err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return nil, domain.ErrProviderUnavailable.WithError(err)
}

// writeFaceImage replaces any stored image of name, whatever its extension.
func (s *AttendanceService) writeFaceImage(name, ext string, data []byte) error {
	if err := os.MkdirAll(s.facesDir, 0o755); err != nil {
		return fmt.Errorf("create faces dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.facesDir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod image: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.facesDir, name+ext)); err != nil {
		return fmt.Errorf("store image: %w", err)
	}

	for _, other := range galleryExtensions {
		if other == ext {
			continue
		}
		if err := os.Remove(filepath.Join(s.facesDir, name+other)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove previous image: %w", err)
		}
	}

	return nil
}

// validateName rejects names that are not a single path element.
func validateName(name string) error {
	if name == "." || name == ".." || strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, "/\\\x00") || filepath.Base(name) != name {
		return domain.ErrInvalidName
	}
	return nil
}
