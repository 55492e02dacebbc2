package summary

import (
	"time"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// Aggregate builds one row per name from the events that fall on day. Rows are
// ordered by each name's first appearance in events.
func Aggregate(events []domain.Event, day time.Time) []domain.SummaryRow {
	type span struct {
		earliest, latest time.Time
	}

	order := []string{}
	spans := map[string]*span{}
	for _, e := range events {
		if !domain.SameDay(day, e.Timestamp) {
			continue
		}
		ts := e.Timestamp.In(day.Location())

		s, ok := spans[e.Name]
		if !ok {
			spans[e.Name] = &span{earliest: ts, latest: ts}
			order = append(order, e.Name)
			continue
		}
		if ts.Before(s.earliest) {
			s.earliest = ts
		}
		if ts.After(s.latest) {
			s.latest = ts
		}
	}

	rows := make([]domain.SummaryRow, 0, len(order))
	for _, name := range order {
		s := spans[name]
		rows = append(rows, domain.SummaryRow{
			Name:        name,
			CheckIn:     s.earliest,
			CheckOut:    s.latest,
			WorkingTime: FormatDuration(WorkedDuration(s.earliest, s.latest)),
		})
	}
	return rows
}
