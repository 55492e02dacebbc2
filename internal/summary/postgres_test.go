package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

func TestPostgresTable_Upsert(t *testing.T) {
	rows := []domain.SummaryRow{
		row("alice", clock(8, 0), clock(17, 0), "08:00:00"),
		row("bob", clock(9, 0), clock(9, 0), "00:00:00"),
	}

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   bool
	}{
		{
			name: "upserts every row in one transaction",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO summary_rows .* ON CONFLICT \(name, check_in\) DO UPDATE`).
					WithArgs("alice", clock(8, 0), clock(17, 0), "08:00:00").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO summary_rows`).
					WithArgs("bob", clock(9, 0), clock(9, 0), "00:00:00").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO summary_rows`).
					WithArgs("alice", clock(8, 0), clock(17, 0), "08:00:00").
					WillReturnError(errors.New("deadlock"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			err = NewPostgresTable(mock, time.UTC).Upsert(context.Background(), rows)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresTable_UpsertEmptyIsNoop(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	require.NoError(t, NewPostgresTable(mock, time.UTC).Upsert(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTable_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	loc := time.FixedZone("BRT", -3*60*60)

	mock.ExpectQuery(`SELECT name, check_in, check_out, working_time FROM summary_rows WHERE check_in >= \$1 AND check_in < \$2 ORDER BY check_in, name`).
		WithArgs(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(pgxmock.NewRows([]string{"name", "check_in", "check_out", "working_time"}).
			AddRow("alice", clock(8, 0), clock(17, 0), "08:00:00"))

	rows, err := NewPostgresTable(mock, loc).List(context.Background(), time.Date(2024, 3, 4, 10, 0, 0, 0, loc))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Name)
	assert.Equal(t, time.Date(2024, 3, 4, 8, 0, 0, 0, loc), rows[0].CheckIn)
	assert.Equal(t, "08:00:00", rows[0].WorkingTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}
