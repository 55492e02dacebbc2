//go:build integration

package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/ponto/internal/database"
)

// startPostgres runs a throwaway Postgres and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "ponto_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/ponto_test?sslmode=disable", host, port.Port())
}

func TestMigrator_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	t.Run("MigrateUp creates tables", func(t *testing.T) {
		require.NoError(t, database.MigrateUp(ctx, dsn))

		pool, err := database.NewPgxPool(ctx, database.DefaultPoolConfig(dsn))
		require.NoError(t, err)
		defer pool.Close()

		for _, table := range []string{"attendance_events", "summary_rows"} {
			var exists bool
			err := pool.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table,
			).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, table)
		}
	})

	t.Run("MigrateUp is idempotent", func(t *testing.T) {
		require.NoError(t, database.MigrateUp(ctx, dsn))
	})

	t.Run("Version and Down", func(t *testing.T) {
		db, err := database.OpenSQL(ctx, dsn)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		migrator, err := database.NewMigrator(db, "ponto_test")
		require.NoError(t, err)
		defer func() { _ = migrator.Close() }()

		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
		assert.False(t, dirty)

		require.NoError(t, migrator.Down())

		version, _, err = migrator.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(1), version)
	})
}
