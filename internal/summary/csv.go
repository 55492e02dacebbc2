package summary

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

var csvHeader = []string{"Name", "Check-in", "Check-out", "Working-time"}

// CSVTable keeps summary rows in a CSV file with a header line. Every Upsert
// rewrites the whole file through a temporary file and a rename.
type CSVTable struct {
	path string
	loc  *time.Location
	mu   sync.Mutex
}

func NewCSVTable(path string, loc *time.Location) *CSVTable {
	if loc == nil {
		loc = time.Local
	}
	return &CSVTable{path: path, loc: loc}
}

func (t *CSVTable) Path() string {
	return t.path
}

func (t *CSVTable) Upsert(ctx context.Context, rows []domain.SummaryRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	existing, err := t.read()
	if err != nil {
		return err
	}

	return t.write(merge(existing, rows))
}

func (t *CSVTable) List(ctx context.Context, date time.Time) ([]domain.SummaryRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	all, err := t.read()
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}

	day := date.In(t.loc)
	rows := []domain.SummaryRow{}
	for _, r := range all {
		if domain.SameDay(day, r.CheckIn) {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// merge replaces rows with a matching key in place and appends new keys.
func merge(existing, updates []domain.SummaryRow) []domain.SummaryRow {
	index := make(map[string]int, len(existing))
	out := make([]domain.SummaryRow, 0, len(existing)+len(updates))

	for _, r := range append(existing, updates...) {
		if i, ok := index[r.Key()]; ok {
			out[i] = r
			continue
		}
		index[r.Key()] = len(out)
		out = append(out, r)
	}
	return out
}

func (t *CSVTable) read() ([]domain.SummaryRow, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.SummaryRow{}, nil
		}
		return nil, fmt.Errorf("open summary: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows := []domain.SummaryRow{}
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
			return nil, fmt.Errorf("read summary: %w", err)
		}

		row, ok := t.parseRecord(record)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseRecord skips the header and anything that is not a full row.
func (t *CSVTable) parseRecord(record []string) (domain.SummaryRow, bool) {
	if len(record) != len(csvHeader) {
		return domain.SummaryRow{}, false
	}

	checkIn, err := t.parseTimestamp(record[1])
	if err != nil {
		return domain.SummaryRow{}, false
	}
	checkOut, err := t.parseTimestamp(record[2])
	if err != nil {
		return domain.SummaryRow{}, false
	}

	return domain.SummaryRow{
		Name:        strings.TrimSpace(record[0]),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		WorkingTime: strings.TrimSpace(record[3]),
	}, true
}

func (t *CSVTable) parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	ts, err := time.ParseInLocation(domain.TimestampLayout, s, t.loc)
	if err == nil {
		return ts, nil
	}
	return time.ParseInLocation(domain.ShortTimestampLayout, s, t.loc)
}

func (t *CSVTable) write(rows []domain.SummaryRow) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create summary dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create summary temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := t.encode(tmp, rows); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close summary temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("replace summary: %w", err)
	}
	return nil
}

// encode writes the header and rows as CSV.
func (t *CSVTable) encode(out io.Writer, rows []domain.SummaryRow) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			r.CheckIn.In(t.loc).Format(domain.TimestampLayout),
			r.CheckOut.In(t.loc).Format(domain.TimestampLayout),
			r.WorkingTime,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write summary row %s: %w", r.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

var _ Table = (*CSVTable)(nil)
