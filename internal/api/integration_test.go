//go:build integration

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/ponto/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/ponto/internal/config"
)

var testDSN string

func TestMain(m *testing.M) {
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
	if err != nil {
		fmt.Printf("Failed to start container: %v\n", err)
		os.Exit(1)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")
	testDSN = fmt.Sprintf("postgres://test:test@%s:%s/ponto_test?sslmode=disable", host, port.Port())

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate container: %v\n", err)
	}
	os.Exit(code)
}

func postgresConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := csvConfig(t)
	cfg.StoreDriver = config.StoreDriverPostgres
	cfg.DatabaseURL = testDSN
	return cfg
}

func TestIntegration_PostgresRoundTrip(t *testing.T) {
	router, a := newTestRouter(t, postgresConfig(t))

	resp := get(t, router, "/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ready handler.HealthResponse
	decode(t, resp, &ready)
	assert.Equal(t, "ok", ready.Checks["database"])

	bob := snapshotDataURL(t, 90)
	resp = postForm(t, router, "/register", url.Values{"name": {"bob"}, "image": {bob}})
	var registered handler.RegisterResponse
	decode(t, resp, &registered)
	require.True(t, registered.Success)

	for i := 0; i < 2; i++ {
		resp = postForm(t, router, "/upload", url.Values{"image": {bob}})
		var uploaded handler.UploadResponse
		decode(t, resp, &uploaded)
		assert.Equal(t, []string{"bob"}, uploaded.Results)
	}

	events, err := a.Log.Day(context.Background(), a.Service.Today())
	require.NoError(t, err)
	assert.Len(t, events, 2)

	resp = postForm(t, router, "/summary/rebuild", url.Values{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, router, "/summary?date="+a.Service.Today().Format("2006-01-02"))
	var sum handler.SummaryResponse
	decode(t, resp, &sum)
	require.Len(t, sum.Rows, 1)
	assert.Equal(t, "bob", sum.Rows[0].Name)
}

func TestIntegration_SummaryRejectsBadDate(t *testing.T) {
	router, _ := newTestRouter(t, postgresConfig(t))

	resp := get(t, router, "/summary?date=yesterday")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
