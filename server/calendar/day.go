package calendar

import (
	"strconv"

	"github.com/hrygo/toeicplanner/store"
)

// DayState is the classification of a calendar day.
type DayState string

const (
	StateExam    DayState = "exam"
	StateMixed   DayState = "mixed"
	StatePending DayState = "pending"
	StateDone    DayState = "done"
	StateEmpty   DayState = "empty"
)

// Tier is the density indicator shown for a day's tasks.
type Tier string

const (
	TierNone   Tier = "none"
	TierSingle Tier = "single"
	TierDots   Tier = "dots"
	TierBadge  Tier = "badge"
)

const (
	maxDots       = 3
	maxBadgeCount = 9
)

// Day is one rendered calendar cell.
type Day struct {
	Date  string        `json:"date"`
	State DayState      `json:"state"`
	Tasks []*store.Task `json:"-"`
	Count int           `json:"count"`
	Tier  Tier          `json:"tier"`
	// Dots is the number of dots drawn for TierDots.
	Dots int `json:"dots,omitempty"`
	// Badge is the label drawn for TierBadge.
	Badge string `json:"badge,omitempty"`
}

// Selectable reports whether clicking the day does anything.
func (d *Day) Selectable() bool {
	return d.State != StateEmpty
}

// ClassifyDay derives the state and density tier of date from the tasks due
// on it. The exam day takes precedence and hides task indicators.
func ClassifyDay(date string, tasks []*store.Task, goal *store.Goal) Day {
	day := Day{Date: date, Tasks: tasks, Count: len(tasks), Tier: TierNone}

	if goal.HasExamDate() && *goal.ExamDate == date {
		day.State = StateExam
		return day
	}

	pending, done := 0, 0
	for _, task := range tasks {
		if task.Completed {
			done++
		} else {
			pending++
		}
	}
	switch {
	case pending > 0 && done > 0:
		day.State = StateMixed
	case pending > 0:
		day.State = StatePending
	case done > 0:
		day.State = StateDone
	default:
		day.State = StateEmpty
		return day
	}

	day.Tier, day.Dots, day.Badge = DensityTier(len(tasks))
	return day
}

// DensityTier maps a task count to its indicator: one task is a single
// marker, two or three are dots, four or more a numeric badge capped at "9+".
func DensityTier(n int) (Tier, int, string) {
	switch {
	case n <= 0:
		return TierNone, 0, ""
	case n == 1:
		return TierSingle, 0, ""
	case n <= maxDots:
		return TierDots, n, ""
	case n <= maxBadgeCount:
		return TierBadge, 0, strconv.Itoa(n)
	default:
		return TierBadge, 0, strconv.Itoa(maxBadgeCount) + "+"
	}
}
