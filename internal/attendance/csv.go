package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// CSVLog stores events as "name,YYYY-MM-DD HH:MM:SS" lines without a header.
// Event IDs are not persisted.
type CSVLog struct {
	path string
	loc  *time.Location
	mu   sync.Mutex
}

// NewCSVLog uses loc to interpret the wall-clock timestamps in the file.
func NewCSVLog(path string, loc *time.Location) *CSVLog {
	if loc == nil {
		loc = time.Local
	}
	return &CSVLog{path: path, loc: loc}
}

func (l *CSVLog) Path() string {
	return l.path
}

func (l *CSVLog) Append(ctx context.Context, e domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create attendance dir: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open attendance log: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{e.Name, e.Timestamp.In(l.loc).Format(domain.TimestampLayout)}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write attendance event: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write attendance event: %w", err)
	}

	return f.Close()
}

func (l *CSVLog) Day(ctx context.Context, date time.Time) ([]domain.Event, error) {
	events, err := l.readAll(ctx)
	if err != nil {
		return nil, err
	}

	day := date.In(l.loc)
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if domain.SameDay(day, e.Timestamp) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *CSVLog) LoggedOn(ctx context.Context, name string, date time.Time) (bool, error) {
	events, err := l.Day(ctx, date)
	if err != nil {
		return false, err
	}
	for _, e := range events {
		if e.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// readAll parses the whole file. Lines that are not a name and a timestamp are skipped.
func (l *CSVLog) readAll(ctx context.Context) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Event{}, nil
		}
		return nil, fmt.Errorf("open attendance log: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	events := []domain.Event{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("read attendance log: %w", err)
		}
		if len(record) != 2 {
			continue
		}

		ts, err := time.ParseInLocation(domain.TimestampLayout, strings.TrimSpace(record[1]), l.loc)
		if err != nil {
			continue
		}
		events = append(events, domain.Event{Name: strings.TrimSpace(record[0]), Timestamp: ts})
	}

	return events, nil
}

var _ Log = (*CSVLog)(nil)
