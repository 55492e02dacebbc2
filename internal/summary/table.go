package summary

import (
	"context"
	"time"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// Table is the derived summary store. Upsert is keyed by (Name, CheckIn);
// a later value replaces an earlier one.
type Table interface {
	Upsert(ctx context.Context, rows []domain.SummaryRow) error
	// List returns the rows whose check-in falls on date's calendar day.
	List(ctx context.Context, date time.Time) ([]domain.SummaryRow, error)
}
