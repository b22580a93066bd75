// Package week computes the canonical week key used by snapshots.
//
// A week is identified by its Monday at midnight in the clock's location.
// Every consumer of a week key (refresh boundary, query boundary, storage)
// must go through this package; two slightly different "current week"
// values would silently fragment snapshots.
package week

import "time"

const daysPerWeek = 7

// Start returns the Monday 00:00 of the week containing t, in t's location.
// A Sunday steps back six days, any other day steps back weekday-1 days.
func Start(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := int(midnight.Weekday()) - 1 // Monday == 1
	if midnight.Weekday() == time.Sunday {
		back = 6
	}
	return midnight.AddDate(0, 0, -back)
}

// NextBoundary returns the first Monday 00:00 strictly after t.
func NextBoundary(t time.Time) time.Time {
	return Start(t).AddDate(0, 0, daysPerWeek)
}

// Key formats a week start as its storage form, a plain calendar date.
func Key(weekStart time.Time) string {
	return weekStart.Format("2006-01-02")
}
