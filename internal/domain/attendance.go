package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// UnknownName is reported for a face that matched no gallery entry.
	UnknownName = "Unknown"

	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
	// ShortTimestampLayout is found in summary files written by older deployments.
	ShortTimestampLayout = "2006-01-02 15:04"
)

// Event is one accepted match written to the attendance log.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// SummaryRow is the derived per-person record for one day.
type SummaryRow struct {
	Name        string    `json:"name"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	WorkingTime string    `json:"working_time"`
}

// Key identifies a row for upserts: one row per (name, check-in).
func (r SummaryRow) Key() string {
	return r.Name + "\x00" + r.CheckIn.Format(TimestampLayout)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
