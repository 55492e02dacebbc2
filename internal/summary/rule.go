// Package summary derives per-person daily check-in, check-out and worked time
// from the attendance log.
package summary

import (
	"fmt"
	"time"
)

// Fixed working-day boundaries, as wall-clock hours.
const (
	WorkStart  = 8
	LunchStart = 12
	LunchEnd   = 13
	WorkEnd    = 17
)

// WorkedDuration computes worked time for a person whose first and last events
// of the day are earliest and latest. Boundaries are wall-clock times on
// earliest's day in its location, so daylight-saving shifts do not move them.
// Time before WorkStart and after WorkEnd does not count, the lunch hour is
// deducted when latest is past it, and the result is never negative.
func WorkedDuration(earliest, latest time.Time) time.Duration {
	start := atHour(earliest, WorkStart)
	lunchStart := atHour(earliest, LunchStart)
	lunchEnd := atHour(earliest, LunchEnd)
	end := atHour(earliest, WorkEnd)
	lunchBreak := lunchEnd.Sub(lunchStart)

	from := earliest
	if !earliest.After(start) {
		from = start
	}

	var worked time.Duration
	switch {
	case latest.Before(lunchStart):
		worked = latest.Sub(from)
	case !latest.After(lunchEnd):
		worked = lunchStart.Sub(from)
	case latest.Before(end):
		worked = latest.Sub(from) - lunchBreak
	default:
		worked = end.Sub(from) - lunchBreak
	}

	if worked < 0 {
		return 0
	}
	return worked
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

// FormatDuration renders d as zero-padded HH:MM:SS. Sub-second parts are dropped.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
