package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/toeicplanner/store"
)

func newTask(category store.TaskCategory, completed bool) *store.Task {
	return &store.Task{Category: category, Completed: completed, DueDate: "2025-08-13"}
}

func completedWithTime(minutes int32) *store.Task {
	task := newTask(store.CategoryReading, true)
	task.CompletionData = &store.CompletionData{Time: minutes, Difficulty: "normal", Focus: "focused"}
	return task
}

func tasksWithCompletion(completed, total int) []*store.Task {
	tasks := make([]*store.Task, 0, total)
	for i := 0; i < total; i++ {
		tasks = append(tasks, newTask(store.CategoryReading, i < completed))
	}
	return tasks
}

func TestCalculateProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		expected  int
	}{
		{"empty", 0, 0, 0},
		{"none completed", 0, 4, 0},
		{"all completed", 5, 5, 100},
		{"one third rounds down", 1, 3, 33},
		{"two sevenths rounds up", 2, 7, 29},
		{"two thirds rounds up", 2, 3, 67},
		{"half", 1, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateProgress(tasksWithCompletion(tt.completed, tt.total))
			assert.Equal(t, tt.expected, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestCalculateCategoryStats(t *testing.T) {
	tasks := []*store.Task{
		newTask(store.CategoryReading, true),
		newTask(store.CategoryReading, true),
		newTask(store.CategoryReading, false),
		newTask(store.CategoryListening, false),
		newTask(store.CategoryMockTest, true),
		newTask("speaking", true),
	}

	result := CalculateCategoryStats(tasks)
	require.Len(t, result, 6)

	for i, category := range store.TaskCategories {
		assert.Equal(t, category, result[i].Category)
		assert.GreaterOrEqual(t, result[i].Percentage, 0)
		assert.LessOrEqual(t, result[i].Percentage, 100)
	}

	assert.Equal(t, CategoryStats{Category: store.CategoryReading, Completed: 2, Total: 3, Percentage: 67}, result[0])
	assert.Equal(t, CategoryStats{Category: store.CategoryListening, Completed: 0, Total: 1, Percentage: 0}, result[1])
	assert.Equal(t, CategoryStats{Category: store.CategoryGrammar}, result[2])
	assert.Equal(t, CategoryStats{Category: store.CategoryVocabulary}, result[3])
	assert.Equal(t, CategoryStats{Category: store.CategoryMockTest, Completed: 1, Total: 1, Percentage: 100}, result[4])
	assert.Equal(t, CategoryStats{Category: store.CategoryOther}, result[5])

	// The unknown category is left out of every bucket.
	sum := 0
	for _, c := range result {
		sum += c.Total
	}
	assert.Equal(t, 5, sum)
	assert.Less(t, sum, len(tasks))

	// Pure: a second call yields the same output and leaves the input untouched.
	assert.Equal(t, result, CalculateCategoryStats(tasks))
	assert.Equal(t, store.TaskCategory("speaking"), tasks[5].Category)
}

func TestCalculateCategoryStatsEmpty(t *testing.T) {
	result := CalculateCategoryStats(nil)
	require.Len(t, result, 6)
	for _, c := range result {
		assert.Zero(t, c.Total)
		assert.Zero(t, c.Completed)
		assert.Zero(t, c.Percentage)
	}
}

func TestCalculateDaysLeft(t *testing.T) {
	reference := time.Date(2025, 8, 13, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		examDate  string
		reference time.Time
		expected  int
	}{
		{"far exam", "2025-12-31", reference, 140},
		{"time of day ignored", "2025-12-31", reference.Add(23*time.Hour + 59*time.Minute), 140},
		{"tomorrow", "2025-08-14", reference, 1},
		{"today", "2025-08-13", reference, 0},
		{"past", "2025-08-01", reference, 0},
		{"empty", "", reference, 0},
		{"unparsable", "next year", reference, 0},
		{"rfc3339", "2025-08-20T09:00:00+09:00", reference, 7},
		{"across dst change", "2025-11-10", time.Date(2025, 10, 20, 12, 0, 0, 0, mustLoadLocation(t, "America/New_York")), 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateDaysLeft(tt.examDate, tt.reference))
		})
	}
}

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	return loc
}

func TestCalculateRequiredTasksPerDay(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []*store.Task
		daysLeft int
		expected float64
	}{
		{"four over ten days", tasksWithCompletion(0, 4), 10, 0.4},
		{"completed tasks ignored", tasksWithCompletion(2, 6), 10, 0.4},
		{"rounded to one decimal", tasksWithCompletion(0, 1), 3, 0.3},
		{"rounded half up", tasksWithCompletion(0, 1), 4, 0.3},
		{"no days left", tasksWithCompletion(0, 4), 0, 0},
		{"negative days", tasksWithCompletion(0, 4), -3, 0},
		{"nothing left", tasksWithCompletion(3, 3), 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateRequiredTasksPerDay(tt.tasks, tt.daysLeft), 1e-9)
		})
	}
}

func TestCalculateTotalStudyTime(t *testing.T) {
	withoutData := newTask(store.CategoryGrammar, true)
	incomplete := newTask(store.CategoryGrammar, false)

	assert.Equal(t, 30, CalculateTotalStudyTime([]*store.Task{completedWithTime(30), withoutData}))
	assert.Equal(t, 75, CalculateTotalStudyTime([]*store.Task{completedWithTime(30), completedWithTime(45), incomplete}))
	assert.Equal(t, 0, CalculateTotalStudyTime(nil))
}

func TestNewOverview(t *testing.T) {
	now := time.Date(2025, 8, 13, 9, 30, 0, 0, time.Local)
	examDate := "2025-12-31"
	goal := &store.Goal{TargetScore: 800, ExamDate: &examDate}

	tasks := []*store.Task{
		completedWithTime(30),
		completedWithTime(95),
		newTask(store.CategoryListening, false),
		newTask(store.CategoryGrammar, false),
	}

	overview := NewOverview(tasks, goal, now)
	assert.Equal(t, 4, overview.Total)
	assert.Equal(t, 2, overview.Completed)
	assert.Equal(t, 2, overview.Remaining)
	assert.Equal(t, 50, overview.CompletionRate)
	assert.Equal(t, 125, overview.TotalStudyTime)
	assert.Equal(t, 140, overview.DaysLeft)
	assert.InDelta(t, 0.0, overview.RequiredTasksPerDay, 1e-9)
	assert.True(t, overview.HasGoal)
	assert.Equal(t, int32(800), overview.TargetScore)
	assert.Len(t, overview.Categories, 6)

	summary := overview.GetSummary()
	for _, section := range []string{"📊 学習状況", "✅ 完了率: 50% (2 / 4)", "⏱️ 学習時間: 2時間5分", "🎯 目標スコア: 800点", "📅 試験まで: 140日", "リーディング: 2/2 (100%)"} {
		assert.Contains(t, summary, section)
	}
	assert.NotContains(t, summary, "模試")
}

func TestNewOverviewWithoutGoal(t *testing.T) {
	overview := NewOverview(nil, nil, time.Now())
	assert.Zero(t, overview.Total)
	assert.Zero(t, overview.CompletionRate)
	assert.Zero(t, overview.DaysLeft)
	assert.False(t, overview.HasGoal)
	assert.NotContains(t, overview.GetSummary(), "目標スコア")

	zeroGoal := NewOverview(nil, &store.Goal{TargetScore: 0}, time.Now())
	assert.False(t, zeroGoal.HasGoal)
}

func TestFormatStudyTime(t *testing.T) {
	assert.Equal(t, "45分", formatStudyTime(45))
	assert.Equal(t, "2時間", formatStudyTime(120))
	assert.Equal(t, "1時間5分", formatStudyTime(65))
}
