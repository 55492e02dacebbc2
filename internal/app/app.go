// Package app assembles the attendance service from configuration. The HTTP
// server and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saturnino-fabrica-de-software/ponto/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/ponto/internal/attendance"
	"github.com/saturnino-fabrica-de-software/ponto/internal/config"
	"github.com/saturnino-fabrica-de-software/ponto/internal/database"
	"github.com/saturnino-fabrica-de-software/ponto/internal/face"
	"github.com/saturnino-fabrica-de-software/ponto/internal/gallery"
	"github.com/saturnino-fabrica-de-software/ponto/internal/service"
	"github.com/saturnino-fabrica-de-software/ponto/internal/summary"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ws"
)

// Version is reported by /health and the CLI.
var Version = "0.1.0"

type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Location   *time.Location
	Gallery    *gallery.Store
	Log        attendance.Log
	Aggregator *summary.Aggregator
	Scheduler  *summary.Scheduler
	Service    *service.AttendanceService
	Hub        *ws.Hub

	pool *pgxpool.Pool
}

// New wires every component. The gallery is not loaded; call LoadGallery.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	policy, err := attendance.ParsePolicy(cfg.AttendancePolicy)
	if err != nil {
		return nil, err
	}

	encoder, err := face.NewFaceEncoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("create face encoder: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Location: loc,
	}

	var table summary.Table
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if err := database.MigrateUp(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		pool, err := database.NewPgxPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.Log = attendance.NewPostgresLog(pool, loc)
		table = summary.NewPostgresTable(pool, loc)
	default:
		a.Log = attendance.NewCSVLog(cfg.AttendanceFile, loc)
		table = summary.NewCSVTable(cfg.SummaryFile, loc)
	}

	a.Hub = ws.NewHub()
	a.Gallery = gallery.NewStore(gallery.NewLoader(cfg.FacesDir, encoder, logger))
	a.Aggregator = summary.NewAggregator(a.Log, table)
	a.Scheduler = summary.NewScheduler(a.Aggregator, cfg.SummaryCron, loc, logger)
	a.Service = service.NewAttendanceService(
		encoder,
		a.Gallery,
		attendance.NewRecorder(a.Log, policy),
		a.Aggregator,
		cfg.FacesDir,
		logger,
	).WithLocation(loc).WithPublisher(a.Hub)

	logger.Info("application wired",
		slog.String("store", cfg.StoreDriver),
		slog.String("provider", encoder.Name()),
		slog.String("policy", string(policy)),
		slog.String("timezone", loc.String()),
	)

	return a, nil
}

// LoadGallery performs the initial gallery load.
func (a *App) LoadGallery(ctx context.Context) error {
	if _, err := a.Gallery.Reload(ctx); err != nil {
		return fmt.Errorf("load gallery: %w", err)
	}
	return nil
}

// ReadinessChecks reports the gallery and, with Postgres, the database.
func (a *App) ReadinessChecks() map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"gallery": func(context.Context) error {
			if !a.Gallery.Loaded() {
				return errors.New("gallery not loaded")
			}
			return nil
		},
	}
	if a.pool != nil {
		checks["database"] = func(ctx context.Context) error {
			return database.HealthCheck(ctx, a.pool)
		}
	}
	return checks
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
