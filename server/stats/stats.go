// Package stats aggregates a task collection into progress metrics.
// Every function here is pure: inputs are never mutated and nothing is cached.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hrygo/toeicplanner/store"
)

// CategoryStats is the completion breakdown of one category.
type CategoryStats struct {
	Category   store.TaskCategory `json:"category"`
	Completed  int                `json:"completed"`
	Total      int                `json:"total"`
	Percentage int                `json:"percentage"`
}

// percent returns round(100*part/whole), or 0 when whole is zero.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// CalculateProgress returns the completion rate of tasks in whole percent.
func CalculateProgress(tasks []*store.Task) int {
	completed := 0
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}
	return percent(completed, len(tasks))
}

// CalculateCategoryStats returns one entry per known category, in
// store.TaskCategories order. Tasks with an unknown category are left out.
func CalculateCategoryStats(tasks []*store.Task) []CategoryStats {
	index := make(map[store.TaskCategory]int, len(store.TaskCategories))
	result := make([]CategoryStats, len(store.TaskCategories))
	for i, category := range store.TaskCategories {
		index[category] = i
		result[i] = CategoryStats{Category: category}
	}

	for _, task := range tasks {
		i, ok := index[task.Category]
		if !ok {
			continue
		}
		result[i].Total++
		if task.Completed {
			result[i].Completed++
		}
	}

	for i := range result {
		result[i].Percentage = percent(result[i].Completed, result[i].Total)
	}
	return result
}

// CalculateDaysLeft returns the number of calendar days from reference to
// examDate. An empty or unparsable date, or an exam today or earlier, yields 0.
func CalculateDaysLeft(examDate string, reference time.Time) int {
	if examDate == "" {
		return 0
	}
	exam, ok := parseCalendarDate(examDate)
	if !ok {
		return 0
	}
	// Compare calendar dates only; UTC midnights keep DST out of the diff.
	ref := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Ceil(exam.Sub(ref).Hours() / 24))
	if days <= 0 {
		return 0
	}
	return days
}

// parseCalendarDate reads the year, month and day of value as a UTC midnight.
// Full RFC 3339 timestamps are accepted and keep their own calendar date.
func parseCalendarDate(value string) (time.Time, bool) {
	if t, err := time.Parse(store.DueDateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// CalculateRequiredTasksPerDay returns incomplete tasks per remaining day,
// rounded to one decimal place. No days left yields 0.
func CalculateRequiredTasksPerDay(tasks []*store.Task, daysLeft int) float64 {
	if daysLeft <= 0 {
		return 0
	}
	incomplete := 0
	for _, task := range tasks {
		if !task.Completed {
			incomplete++
		}
	}
	return math.Round(float64(incomplete)/float64(daysLeft)*10) / 10
}

// CalculateTotalStudyTime sums the recorded study minutes of tasks.
// Tasks without completion data count as zero.
func CalculateTotalStudyTime(tasks []*store.Task) int {
	total := 0
	for _, task := range tasks {
		if task.CompletionData != nil {
			total += int(task.CompletionData.Time)
		}
	}
	return total
}

// Overview is the progress summary shown at the top of the planner.
type Overview struct {
	Total               int             `json:"total"`
	Completed           int             `json:"completed"`
	Remaining           int             `json:"remaining"`
	CompletionRate      int             `json:"completionRate"`
	DaysLeft            int             `json:"daysLeft"`
	RequiredTasksPerDay float64         `json:"requiredTasksPerDay"`
	TotalStudyTime      int             `json:"totalStudyTime"`
	Categories          []CategoryStats `json:"categories"`
	TargetScore         int32           `json:"targetScore"`
	ExamDate            string          `json:"examDate,omitempty"`
	HasGoal             bool            `json:"hasGoal"`
	GeneratedAt         time.Time       `json:"generatedAt"`
}

// NewOverview computes the overview of tasks and goal at now. goal may be nil.
func NewOverview(tasks []*store.Task, goal *store.Goal, now time.Time) *Overview {
	completedTasks := make([]*store.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Completed {
			completedTasks = append(completedTasks, task)
		}
	}

	overview := &Overview{
		Total:          len(tasks),
		Completed:      len(completedTasks),
		Remaining:      len(tasks) - len(completedTasks),
		CompletionRate: CalculateProgress(tasks),
		TotalStudyTime: CalculateTotalStudyTime(completedTasks),
		Categories:     CalculateCategoryStats(tasks),
		GeneratedAt:    now,
	}
	if goal != nil {
		overview.TargetScore = goal.TargetScore
		overview.HasGoal = goal.TargetScore > 0
		if goal.HasExamDate() {
			overview.ExamDate = *goal.ExamDate
			overview.DaysLeft = CalculateDaysLeft(overview.ExamDate, now)
			overview.RequiredTasksPerDay = CalculateRequiredTasksPerDay(tasks, overview.DaysLeft)
		}
	}
	return overview
}

// GetSummary returns a human-readable summary.
func (o *Overview) GetSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 学習状況 (%s)\n\n", o.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "✅ 完了率: %d%% (%d / %d)\n", o.CompletionRate, o.Completed, o.Total)
	fmt.Fprintf(&b, "📝 残りタスク: %d\n", o.Remaining)
	fmt.Fprintf(&b, "⏱️ 学習時間: %s\n", formatStudyTime(o.TotalStudyTime))

	if o.HasGoal {
		fmt.Fprintf(&b, "🎯 目標スコア: %d点\n", o.TargetScore)
	}
	if o.ExamDate != "" {
		fmt.Fprintf(&b, "📅 試験まで: %d日 (1日あたり %.1f タスク)\n", o.DaysLeft, o.RequiredTasksPerDay)
	}

	b.WriteString("\n📚 カテゴリ別\n")
	for _, c := range o.Categories {
		if c.Total == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s: %d/%d (%d%%)\n", c.Category.Label(), c.Completed, c.Total, c.Percentage)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStudyTime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d分", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%d時間", minutes/60)
	}
	return fmt.Sprintf("%d時間%d分", minutes/60, minutes%60)
}
