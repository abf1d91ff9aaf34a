// Package timezone provides timezone and calendar-date utilities.
//
// Due dates are zone-less calendar dates ("2006-01-02"); this package decides
// which calendar date "now" is for a configured zone and walks date ranges.
package timezone

import (
	"fmt"
	"time"
)

// DateLayout is the layout of calendar date strings.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t in tz.
func DateOf(t time.Time, tz *time.Location) string {
	if tz == nil {
		tz = time.UTC
	}
	return t.In(tz).Format(DateLayout)
}

// ParseDate parses a calendar date string as a UTC midnight.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// DateRange returns every calendar date in [start, end], one per day.
// The range is empty when end is before start.
func DateRange(start, end string) ([]string, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}

	dates := []string{}
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		dates = append(dates, date.Format(DateLayout))
	}
	return dates, nil
}

// DaysBetween returns the number of calendar days from start to end (negative when end is earlier).
func DaysBetween(start, end string) (int, error) {
	from, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from).Hours() / 24), nil
}

// FormatJapaneseDate renders a calendar date as "2025年8月15日".
func FormatJapaneseDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Format("2006年1月2日"), nil
}
