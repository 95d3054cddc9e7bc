// internal/domain/window.go
package domain

import "time"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Windows holds the rolling thresholds used by the dashboard counters.
// Storage counts a record inside a window only when it is strictly after
// the threshold (created_at > DayAgo, date > DateCutoff).
type Windows struct {
	Now     time.Time
	DayAgo  time.Time // now - 24h
	WeekAgo time.Time // now - 7*24h
	// DateCutoff is DayAgo truncated to a calendar day, for DATE columns.
	DateCutoff time.Time
}

// NewWindows computes the thresholds relative to now.
func NewWindows(now time.Time) Windows {
	dayAgo := now.Add(-day)
	return Windows{
		Now:        now,
		DayAgo:     dayAgo,
		WeekAgo:    now.Add(-week),
		DateCutoff: time.Date(dayAgo.Year(), dayAgo.Month(), dayAgo.Day(), 0, 0, 0, 0, dayAgo.Location()),
	}
}
