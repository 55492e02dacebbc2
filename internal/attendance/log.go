// Package attendance records accepted matches as time-stamped events.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// Log is an append-only store of attendance events.
type Log interface {
	Append(ctx context.Context, e domain.Event) error
	// Day returns the events of date's calendar day in log order.
	Day(ctx context.Context, date time.Time) ([]domain.Event, error)
	LoggedOn(ctx context.Context, name string, date time.Time) (bool, error)
}

// Policy decides whether a repeated match on the same day is written.
type Policy string

const (
	// PolicyEvery logs every accepted match; the summary collapses them.
	PolicyEvery Policy = "every"
	// PolicyOncePerDay logs only the first match of a name per calendar day.
	PolicyOncePerDay Policy = "daily"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyEvery, "":
		return PolicyEvery, nil
	case PolicyOncePerDay:
		return PolicyOncePerDay, nil
	default:
		return "", fmt.Errorf("unknown attendance policy %q (supported: %s, %s)", s, PolicyEvery, PolicyOncePerDay)
	}
}

// Recorder writes events to a Log according to a Policy.
type Recorder struct {
	log    Log
	policy Policy
}

func NewRecorder(log Log, policy Policy) *Recorder {
	return &Recorder{log: log, policy: policy}
}

func (r *Recorder) Policy() Policy {
	return r.policy
}

// Record logs name at the given time, truncated to the second. It returns
// false when the policy suppressed the write.
func (r *Recorder) Record(ctx context.Context, name string, at time.Time) (bool, error) {
	if r.policy == PolicyOncePerDay {
		logged, err := r.log.LoggedOn(ctx, name, at)
		if err != nil {
			return false, fmt.Errorf("check attendance of %s: %w", name, err)
		}
		if logged {
			return false, nil
		}
	}

	event := domain.Event{
		ID:        uuid.New(),
		Name:      name,
		Timestamp: at.Truncate(time.Second),
	}
	if err := r.log.Append(ctx, event); err != nil {
		return false, fmt.Errorf("record attendance of %s: %w", name, err)
	}
	return true, nil
}

// dayBounds returns [start, end) of date's calendar day.
func dayBounds(date time.Time) (time.Time, time.Time) {
	start := domain.StartOfDay(date)
	return start, start.AddDate(0, 0, 1)
}
