package summary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/ponto/internal/attendance"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// Aggregator rebuilds the summary rows of a day from the attendance log.
type Aggregator struct {
	log   attendance.Log
	table Table
	mu    sync.Mutex
}

func NewAggregator(log attendance.Log, table Table) *Aggregator {
	return &Aggregator{log: log, table: table}
}

// Rebuild reads date's events, aggregates them and upserts the result.
// Running it twice over the same events leaves the table unchanged.
func (a *Aggregator) Rebuild(ctx context.Context, date time.Time) ([]domain.SummaryRow, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	events, err := a.log.Day(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load attendance for %s: %w", date.Format(domain.DateLayout), err)
	}

	rows := Aggregate(events, date)
	if err := a.table.Upsert(ctx, rows); err != nil {
		return nil, fmt.Errorf("store summary for %s: %w", date.Format(domain.DateLayout), err)
	}

	return rows, nil
}

// List returns the stored rows of date's day.
func (a *Aggregator) List(ctx context.Context, date time.Time) ([]domain.SummaryRow, error) {
	rows, err := a.table.List(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list summary for %s: %w", date.Format(domain.DateLayout), err)
	}
	return rows, nil
}
