// Package scheduler decides when configured report schedules are due and
// runs the report pipeline for them. The due check runs once a minute; an
// entry fires when its weekday and HH:MM match the current moment and it
// has not already fired today.
package scheduler

import (
	"time"

	"github.com/aatumaykin/reportbot/internal/store"
)

// EvaluateDue returns the entries that should fire at now, and separately
// the entries whose day and time match but which already ran today (an
// informational no-op, not an error).
//
// Times are compared at minute granularity in now's location; "already ran
// today" compares calendar dates, so the per-day latch resets implicitly at
// midnight.
func EvaluateDue(now time.Time, entries []store.ScheduleEntry) (due, ranToday []store.ScheduleEntry) {
	currentDay := now.Weekday().String()
	currentHourMinute := now.Format("15:04")

	for _, entry := range entries {
		if !entry.IsActive || !entry.RunsOn(currentDay) {
			continue
		}
		if entry.RunHourMinute() != currentHourMinute {
			continue
		}
		if alreadyRanToday(entry, now) {
			ranToday = append(ranToday, entry)
			continue
		}
		due = append(due, entry)
	}

	return due, ranToday
}

func alreadyRanToday(entry store.ScheduleEntry, now time.Time) bool {
	if entry.LastRun == nil {
		return false
	}
	y1, m1, d1 := entry.LastRun.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
