package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/ponto/internal/database"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// PostgresTable stores summary rows in summary_rows, keyed by (name, check_in).
type PostgresTable struct {
	pool database.PgxPool
	loc  *time.Location
}

func NewPostgresTable(pool database.PgxPool, loc *time.Location) *PostgresTable {
	if loc == nil {
		loc = time.Local
	}
	return &PostgresTable{pool: pool, loc: loc}
}

func (t *PostgresTable) Upsert(ctx context.Context, rows []domain.SummaryRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO summary_rows (name, check_in, check_out, working_time, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (name, check_in) DO UPDATE
		SET check_out = EXCLUDED.check_out,
		    working_time = EXCLUDED.working_time,
		    updated_at = NOW()
	`

	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin summary upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range rows {
		_, err := tx.Exec(ctx, query,
			r.Name,
			database.WallClock(r.CheckIn.In(t.loc)),
			database.WallClock(r.CheckOut.In(t.loc)),
			r.WorkingTime,
		)
		if err != nil {
			return fmt.Errorf("upsert summary row for %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit summary upsert: %w", err)
	}
	return nil
}

func (t *PostgresTable) List(ctx context.Context, date time.Time) ([]domain.SummaryRow, error) {
	query := `
		SELECT name, check_in, check_out, working_time
		FROM summary_rows
		WHERE check_in >= $1 AND check_in < $2
		ORDER BY check_in, name
	`

	start := domain.StartOfDay(date.In(t.loc))
	end := start.AddDate(0, 0, 1)

	rows, err := t.pool.Query(ctx, query, database.WallClock(start), database.WallClock(end))
	if err != nil {
		return nil, fmt.Errorf("query summary rows: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SummaryRow, error) {
		var (
			r                 domain.SummaryRow
			checkIn, checkOut time.Time
		)
		if err := row.Scan(&r.Name, &checkIn, &checkOut, &r.WorkingTime); err != nil {
			return r, err
		}
		r.CheckIn = database.FromWallClock(checkIn, t.loc)
		r.CheckOut = database.FromWallClock(checkOut, t.loc)
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan summary rows: %w", err)
	}

	return out, nil
}

var _ Table = (*PostgresTable)(nil)
