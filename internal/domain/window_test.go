// internal/domain/window_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWindows_RollingThresholds(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	w := NewWindows(now)

	assert.Equal(t, now, w.Now)
	assert.Equal(t, time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC), w.DayAgo)
	assert.Equal(t, time.Date(2026, 3, 3, 15, 30, 0, 0, time.UTC), w.WeekAgo)
}

func TestNewWindows_DateCutoffIsCalendarDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 15, 0, 0, time.UTC)
	w := NewWindows(now)

	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), w.DateCutoff)
}

func TestNewWindows_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2026, 3, 1, 5, 0, 0, 0, loc)
	w := NewWindows(now)

	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, loc), w.DateCutoff)
}
