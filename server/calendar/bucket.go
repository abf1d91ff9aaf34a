// Package calendar buckets tasks by due date and derives the per-day state,
// density tier and selection behavior of the month calendar.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/toeicplanner/store"
)

// DateKey returns the canonical YYYY-MM-DD key of t, using t's own calendar
// components in its own location.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

var dateKeyLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeDateKey converts a date representation to its canonical key.
// Timestamps keep the calendar date written in them, never a UTC-shifted one.
func NormalizeDateKey(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateKeyLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return DateKey(t), true
		}
	}
	return "", false
}

// TasksForDate returns the tasks whose due date is exactly key, in input order.
func TasksForDate(tasks []*store.Task, key string) []*store.Task {
	matched := []*store.Task{}
	for _, task := range tasks {
		if task.DueDate == key {
			matched = append(matched, task)
		}
	}
	return matched
}

// GroupByDate buckets tasks by due date. Each bucket keeps input order.
func GroupByDate(tasks []*store.Task) map[string][]*store.Task {
	buckets := make(map[string][]*store.Task)
	for _, task := range tasks {
		buckets[task.DueDate] = append(buckets[task.DueDate], task)
	}
	return buckets
}
