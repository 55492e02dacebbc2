package summary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/attendance"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type MockRebuilder struct {
	mock.Mock
}

func (m *MockRebuilder) Rebuild(ctx context.Context, date time.Time) ([]domain.SummaryRow, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SummaryRow), args.Error(1)
}

type failingLog struct {
	attendance.Log
}

func (failingLog) Day(context.Context, time.Time) ([]domain.Event, error) {
	return nil, errors.New("disk error")
}

func newCSVAggregator(t *testing.T) (*Aggregator, *attendance.CSVLog, string) {
	t.Helper()
	dir := t.TempDir()
	log := attendance.NewCSVLog(filepath.Join(dir, "attendance.csv"), time.UTC)
	summaryPath := filepath.Join(dir, "summarize.csv")
	return NewAggregator(log, NewCSVTable(summaryPath, time.UTC)), log, summaryPath
}

func TestAggregator_Rebuild(t *testing.T) {
	agg, log, _ := newCSVAggregator(t)
	ctx := context.Background()

	for _, ts := range []time.Time{clock(8, 0), clock(12, 10), clock(17, 0)} {
		require.NoError(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: ts}))
	}

	rows, err := agg.Rebuild(ctx, clock(18, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "08:00:00", rows[0].WorkingTime)

	listed, err := agg.List(ctx, clock(0, 0))
	require.NoError(t, err)
	assert.Equal(t, rows, listed)
}

func TestAggregator_RebuildIsIdempotent(t *testing.T) {
	agg, log, summaryPath := newCSVAggregator(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: clock(8, 0)}))
	require.NoError(t, log.Append(ctx, domain.Event{Name: "bob", Timestamp: clock(9, 0)}))
	require.NoError(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: clock(17, 0)}))

	_, err := agg.Rebuild(ctx, clock(0, 0))
	require.NoError(t, err)
	first, err := os.ReadFile(summaryPath)
	require.NoError(t, err)

	_, err = agg.Rebuild(ctx, clock(0, 0))
	require.NoError(t, err)
	second, err := os.ReadFile(summaryPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))

	rows, err := agg.List(ctx, clock(0, 0))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAggregator_LaterEventsUpdateSameRow(t *testing.T) {
	agg, log, _ := newCSVAggregator(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: clock(8, 0)}))
	_, err := agg.Rebuild(ctx, clock(0, 0))
	require.NoError(t, err)

	require.NoError(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: clock(15, 0)}))
	_, err = agg.Rebuild(ctx, clock(0, 0))
	require.NoError(t, err)

	rows, err := agg.List(ctx, clock(0, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, clock(15, 0), rows[0].CheckOut)
	assert.Equal(t, "06:00:00", rows[0].WorkingTime)
}

func TestAggregator_LogError(t *testing.T) {
	agg := NewAggregator(failingLog{}, NewCSVTable(filepath.Join(t.TempDir(), "s.csv"), time.UTC))

	_, err := agg.Rebuild(context.Background(), clock(0, 0))
	assert.ErrorContains(t, err, "disk error")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RebuildToday(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	m := new(MockRebuilder)
	m.On("Rebuild", mock.Anything, mock.MatchedBy(func(d time.Time) bool {
		return d.Location() == loc && d.Day() == 4
	})).Return([]domain.SummaryRow{}, nil).Once()

	s := NewScheduler(m, "5 17 * * *", loc, discardLogger())
	// 01:00 UTC on the 5th is still the 4th in BRT
	s.now = func() time.Time { return time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC) }

	s.rebuildToday(context.Background())
	m.AssertExpectations(t)
}

func TestScheduler_RebuildErrorIsLogged(t *testing.T) {
	m := new(MockRebuilder)
	m.On("Rebuild", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	s := NewScheduler(m, "5 17 * * *", time.UTC, discardLogger())
	assert.NotPanics(t, func() { s.rebuildToday(context.Background()) })
	m.AssertExpectations(t)
}

func TestScheduler_Run(t *testing.T) {
	t.Run("invalid cron", func(t *testing.T) {
		s := NewScheduler(new(MockRebuilder), "not a cron", time.UTC, discardLogger())
		assert.Error(t, s.Run(context.Background()))
	})

	t.Run("disabled", func(t *testing.T) {
		s := NewScheduler(new(MockRebuilder), "", time.UTC, discardLogger())
		assert.NoError(t, s.Run(context.Background()))
	})

	t.Run("stops with context", func(t *testing.T) {
		s := NewScheduler(new(MockRebuilder), "5 17 * * *", time.UTC, discardLogger())
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.NoError(t, s.Run(ctx))
	})
}
