package calendar

import (
	"fmt"
	"time"

	"github.com/hrygo/toeicplanner/store"
)

// WeekdayLabels are the column headers of the month grid, Sunday first.
var WeekdayLabels = []string{"日", "月", "火", "水", "木", "金", "土"}

// Month is the displayed year and month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the following month, rolling December over to January.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev returns the preceding month, rolling January back to December.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Label renders the month as "8月 2025".
func (m Month) Label() string {
	return fmt.Sprintf("%d月 %d", int(m.Month), m.Year)
}

// DaysIn returns the number of days in the month.
func (m Month) DaysIn() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks returns the number of empty cells before the 1st in a
// Sunday-first grid.
func (m Month) LeadingBlanks() int {
	return int(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// DateKey returns the key of day d of the month.
func (m Month) DateKey(d int) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year, int(m.Month), d)
}

// MonthView is a fully classified month.
type MonthView struct {
	Month         Month    `json:"month"`
	Label         string   `json:"label"`
	WeekdayLabels []string `json:"weekdayLabels"`
	LeadingBlanks int      `json:"leadingBlanks"`
	Days          []Day    `json:"days"`
	Prev          Month    `json:"prev"`
	Next          Month    `json:"next"`
}

// BuildMonth classifies every day of m. tasks and goal are only read.
func BuildMonth(m Month, tasks []*store.Task, goal *store.Goal) *MonthView {
	buckets := GroupByDate(tasks)
	days := make([]Day, 0, m.DaysIn())
	for d := 1; d <= m.DaysIn(); d++ {
		key := m.DateKey(d)
		days = append(days, ClassifyDay(key, buckets[key], goal))
	}
	return &MonthView{
		Month:         m,
		Label:         m.Label(),
		WeekdayLabels: WeekdayLabels,
		LeadingBlanks: m.LeadingBlanks(),
		Days:          days,
		Prev:          m.Prev(),
		Next:          m.Next(),
	}
}
