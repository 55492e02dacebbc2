package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// Rebuilder is what the scheduler runs; *Aggregator implements it.
type Rebuilder interface {
	Rebuild(ctx context.Context, date time.Time) ([]domain.SummaryRow, error)
}

// Scheduler rebuilds the current day's summary on a cron schedule, so a day
// gets its summary even when no upload happens after the last check-out.
type Scheduler struct {
	rebuilder Rebuilder
	cron      string
	loc       *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

func NewScheduler(rebuilder Rebuilder, cron string, loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		rebuilder: rebuilder,
		cron:      cron,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Run blocks until ctx is cancelled. An empty cron expression disables the job.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cron == "" {
		s.logger.Info("summary scheduler disabled")
		return nil
	}

	cs := gocron.NewScheduler(s.loc)
	cs.SingletonModeAll()

	if _, err := cs.Cron(s.cron).Do(s.rebuildToday, ctx); err != nil {
		return fmt.Errorf("schedule summary rebuild %q: %w", s.cron, err)
	}

	cs.StartAsync()
	s.logger.Info("summary scheduler started", "cron", s.cron, "timezone", s.loc.String())

	<-ctx.Done()
	cs.Stop()
	s.logger.Info("summary scheduler stopped")

	return nil
}

func (s *Scheduler) rebuildToday(ctx context.Context) {
	today := s.now().In(s.loc)

	rows, err := s.rebuilder.Rebuild(ctx, today)
	if err != nil {
		s.logger.Error("scheduled summary rebuild failed", "date", today.Format(domain.DateLayout), "error", err)
		return
	}

	s.logger.Info("scheduled summary rebuild completed", "date", today.Format(domain.DateLayout), "rows", len(rows))
}
