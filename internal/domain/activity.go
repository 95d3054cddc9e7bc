// internal/domain/activity.go
package domain

import "time"

// FillDailyCounts returns one entry per calendar day in [from, to], taking
// counts from rows and zero for days without transactions.
func FillDailyCounts(rows []DailyCount, from, to time.Time) []DailyCount {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return []DailyCount{}
	}

	byDay := make(map[string]int64, len(rows))
	for _, r := range rows {
		byDay[r.Day.Format(time.DateOnly)] += r.Count
	}

	out := make([]DailyCount, 0, int(to.Sub(from)/day)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, DailyCount{Day: d, Count: byDay[d.Format(time.DateOnly)]})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
