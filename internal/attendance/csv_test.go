package attendance

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

func at(h, m, s int) time.Time {
	return time.Date(2024, 3, 4, h, m, s, 0, time.UTC)
}

func TestCSVLog_AppendWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "attendance.csv")
	log := NewCSVLog(path, time.UTC)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: at(8, 1, 2)}))
	require.NoError(t, log.Append(ctx, domain.Event{Name: "bob", Timestamp: at(9, 30, 0)}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice,2024-03-04 08:01:02\nbob,2024-03-04 09:30:00\n", string(content))
}

func TestCSVLog_Day(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.csv")
	content := "alice,2024-03-04 08:00:00\n" +
		"garbage line\n" +
		"bob,not a time\n" +
		"alice,2024-03-05 08:00:00\n" +
		"\n" +
		"bob,2024-03-04 17:10:00\n" +
		"alice,2024-03-04 12:00:00\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	log := NewCSVLog(path, time.UTC)
	events, err := log.Day(context.Background(), at(10, 0, 0))
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "alice", events[0].Name)
	assert.Equal(t, at(8, 0, 0), events[0].Timestamp)
	assert.Equal(t, "bob", events[1].Name)
	assert.Equal(t, "alice", events[2].Name)
}

func TestCSVLog_MissingFileIsEmpty(t *testing.T) {
	log := NewCSVLog(filepath.Join(t.TempDir(), "none.csv"), time.UTC)

	events, err := log.Day(context.Background(), at(8, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, events)

	logged, err := log.LoggedOn(context.Background(), "alice", at(8, 0, 0))
	require.NoError(t, err)
	assert.False(t, logged)
}

func TestCSVLog_LoggedOn(t *testing.T) {
	log := NewCSVLog(filepath.Join(t.TempDir(), "attendance.csv"), time.UTC)
	ctx := context.Background()
	require.NoError(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: at(8, 0, 0)}))

	logged, err := log.LoggedOn(ctx, "alice", at(18, 0, 0))
	require.NoError(t, err)
	assert.True(t, logged)

	logged, err = log.LoggedOn(ctx, "alice", at(8, 0, 0).AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, logged)

	logged, err = log.LoggedOn(ctx, "bob", at(8, 0, 0))
	require.NoError(t, err)
	assert.False(t, logged)
}

func TestCSVLog_UsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	path := filepath.Join(t.TempDir(), "attendance.csv")
	log := NewCSVLog(path, loc)
	ctx := context.Background()

	// 02:00 UTC on the 5th is 23:00 on the 4th in BRT
	require.NoError(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC)}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice,2024-03-04 23:00:00\n", string(content))

	events, err := log.Day(ctx, time.Date(2024, 3, 4, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, loc, events[0].Timestamp.Location())
}

func TestCSVLog_CancelledContext(t *testing.T) {
	log := NewCSVLog(filepath.Join(t.TempDir(), "attendance.csv"), time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, log.Append(ctx, domain.Event{Name: "alice", Timestamp: at(8, 0, 0)}), context.Canceled)
	_, err := log.Day(ctx, at(8, 0, 0))
	assert.ErrorIs(t, err, context.Canceled)
}
