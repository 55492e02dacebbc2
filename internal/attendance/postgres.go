package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/database"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// PostgresLog stores events in the attendance_events table. The column is a
// plain TIMESTAMP holding wall-clock time in the configured location.
type PostgresLog struct {
	pool database.PgxPool
	loc  *time.Location
}

func NewPostgresLog(pool database.PgxPool, loc *time.Location) *PostgresLog {
	if loc == nil {
		loc = time.Local
	}
	return &PostgresLog{pool: pool, loc: loc}
}

func (l *PostgresLog) Append(ctx context.Context, e domain.Event) error {
	query := `
		INSERT INTO attendance_events (id, name, logged_at)
		VALUES ($1, $2, $3)
	`

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	_, err := l.pool.Exec(ctx, query, e.ID, e.Name, database.WallClock(e.Timestamp.In(l.loc)))
	if err != nil {
		return fmt.Errorf("insert attendance event: %w", err)
	}

	return nil
}

func (l *PostgresLog) Day(ctx context.Context, date time.Time) ([]domain.Event, error) {
	query := `
		SELECT id, name, logged_at
		FROM attendance_events
		WHERE logged_at >= $1 AND logged_at < $2
		ORDER BY logged_at, id
	`

	start, end := dayBounds(date.In(l.loc))
	rows, err := l.pool.Query(ctx, query, database.WallClock(start), database.WallClock(end))
	if err != nil {
		return nil, fmt.Errorf("query attendance events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var (
			e  domain.Event
			ts time.Time
		)
		if err := rows.Scan(&e.ID, &e.Name, &ts); err != nil {
			return nil, fmt.Errorf("scan attendance event: %w", err)
		}
		e.Timestamp = database.FromWallClock(ts, l.loc)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance events: %w", err)
	}

	return events, nil
}

func (l *PostgresLog) LoggedOn(ctx context.Context, name string, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_events
			WHERE name = $1 AND logged_at >= $2 AND logged_at < $3
		)
	`

	start, end := dayBounds(date.In(l.loc))
	var exists bool
	if err := l.pool.QueryRow(ctx, query, name, database.WallClock(start), database.WallClock(end)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check attendance event: %w", err)
	}

	return exists, nil
}

var _ Log = (*PostgresLog)(nil)
