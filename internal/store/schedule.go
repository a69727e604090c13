// Package store persists schedule entries. The production implementation is
// SQLite-backed; an in-memory implementation backs tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrNotFound is returned when a schedule entry does not exist.
var ErrNotFound = errors.New("schedule not found")

// weekdayNames is the set of accepted day names (full English names, as
// produced by time.Weekday.String).
var weekdayNames = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
	"Saturday":  true,
	"Sunday":    true,
}

var runTimeRe = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// ScheduleEntry is one configured report schedule.
type ScheduleEntry struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	RunTime    string     `json:"run_time"`     // HH:MM or HH:MM:SS
	DaysOfWeek []string   `json:"days_of_week"` // full English weekday names
	LastRun    *time.Time `json:"last_run,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Validate checks the entry fields supplied by the operator.
func (e *ScheduleEntry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !runTimeRe.MatchString(e.RunTime) {
		return fmt.Errorf("run_time must be formatted HH:MM or HH:MM:SS (got %q)", e.RunTime)
	}
	if len(e.DaysOfWeek) == 0 {
		return fmt.Errorf("days_of_week must not be empty")
	}
	for _, day := range e.DaysOfWeek {
		if !weekdayNames[day] {
			return fmt.Errorf("invalid day of week: %q", day)
		}
	}
	return nil
}

// RunHourMinute returns the run time truncated to HH:MM.
func (e *ScheduleEntry) RunHourMinute() string {
	if len(e.RunTime) >= 5 {
		return e.RunTime[:5]
	}
	return e.RunTime
}

// RunsOn reports whether the entry is scheduled for the given weekday name.
func (e *ScheduleEntry) RunsOn(day string) bool {
	for _, d := range e.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// ScheduleRepository is the persistence capability the evaluator and the web
// UI depend on.
type ScheduleRepository interface {
	List(ctx context.Context) ([]ScheduleEntry, error)
	Get(ctx context.Context, id string) (*ScheduleEntry, error)
	Create(ctx context.Context, entry *ScheduleEntry) error
	Update(ctx context.Context, entry *ScheduleEntry) error
	Delete(ctx context.Context, id string) error
	UpdateLastRun(ctx context.Context, id string, lastRun time.Time) error
}
