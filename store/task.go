package store

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrTaskNotFound is returned by drivers when no task matches an update or delete.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskAlreadyCompleted is returned by UpdateTask when RequireIncomplete is
	// set and the task was completed in the meantime.
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)

// TaskCategory is the study area a task belongs to.
type TaskCategory string

const (
	CategoryReading    TaskCategory = "reading"
	CategoryListening  TaskCategory = "listening"
	CategoryGrammar    TaskCategory = "grammar"
	CategoryVocabulary TaskCategory = "vocabulary"
	CategoryMockTest   TaskCategory = "mock-test"
	CategoryOther      TaskCategory = "other"
)

// TaskCategories lists every known category in display order.
var TaskCategories = []TaskCategory{
	CategoryReading,
	CategoryListening,
	CategoryGrammar,
	CategoryVocabulary,
	CategoryMockTest,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories.
func (c TaskCategory) IsValid() bool {
	for _, known := range TaskCategories {
		if c == known {
			return true
		}
	}
	return false
}

var taskCategoryLabels = map[TaskCategory]string{
	CategoryReading:    "リーディング",
	CategoryListening:  "リスニング",
	CategoryGrammar:    "文法",
	CategoryVocabulary: "単語",
	CategoryMockTest:   "模試",
	CategoryOther:      "その他",
}

// Label returns the display name of c, or c itself when unknown.
func (c TaskCategory) Label() string {
	if label, ok := taskCategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Difficulty labels recorded when completing a task.
var Difficulties = []string{"easy", "normal", "hard"}

// Focus labels recorded when completing a task.
var FocusLevels = []string{"focused", "normal", "distracted"}

// DueDateLayout is the layout of Task.DueDate and Goal.ExamDate.
const DueDateLayout = "2006-01-02"

// CompletionData is the reflection recorded when a task is completed.
type CompletionData struct {
	// Time is the study time in minutes.
	Time       int32  `json:"time" firestore:"time"`
	Difficulty string `json:"difficulty" firestore:"difficulty"`
	Focus      string `json:"focus" firestore:"focus"`
}

// Task is the object representing a study task.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Category    TaskCategory
	Description string
	// DueDate is a calendar date in DueDateLayout, without time or zone.
	DueDate   string
	Completed bool
	CreatedTs int64
	UpdatedTs int64

	// Set together, only when Completed is true.
	CompletedTs    *int64
	CompletionData *CompletionData
}

// FindTask is the find condition for task.
type FindTask struct {
	ID      *string
	OwnerID *string

	Completed *bool
	Category  *TaskCategory

	// Inclusive due date range in DueDateLayout.
	DueDateFrom *string
	DueDateTo   *string

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateTask is the update request for task.
type UpdateTask struct {
	ID      string
	OwnerID string

	UpdatedTs      *int64
	Title          *string
	Category       *TaskCategory
	Description    *string
	DueDate        *string
	Completed      *bool
	CompletedTs    *int64
	CompletionData *CompletionData

	// RequireIncomplete applies the update only while the task is incomplete.
	RequireIncomplete bool
}

// DeleteTask is the delete request for task.
type DeleteTask struct {
	ID      string
	OwnerID string
}

// CreateTask creates a new task.
func (s *Store) CreateTask(ctx context.Context, create *Task) (*Task, error) {
	task, err := s.driver.CreateTask(ctx, create)
	if err != nil {
		return nil, err
	}
	s.notifyChange(create.OwnerID)
	return task, nil
}

// ListTasks lists tasks with filter.
// Completed tasks are ordered by completion time descending, everything else by due date.
func (s *Store) ListTasks(ctx context.Context, find *FindTask) ([]*Task, error) {
	return s.driver.ListTasks(ctx, find)
}

// GetTask gets a task, returning nil when none matches.
func (s *Store) GetTask(ctx context.Context, find *FindTask) (*Task, error) {
	list, err := s.driver.ListTasks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateTask updates a task.
func (s *Store) UpdateTask(ctx context.Context, update *UpdateTask) error {
	if err := s.driver.UpdateTask(ctx, update); err != nil {
		return err
	}
	s.notifyChange(update.OwnerID)
	return nil
}

// DeleteTask deletes a task.
func (s *Store) DeleteTask(ctx context.Context, delete *DeleteTask) error {
	if err := s.driver.DeleteTask(ctx, delete); err != nil {
		return err
	}
	s.notifyChange(delete.OwnerID)
	return nil
}

// ListTaskOwners returns every owner that has at least one task.
func (s *Store) ListTaskOwners(ctx context.Context) ([]string, error) {
	return s.driver.ListTaskOwners(ctx)
}

// ParseDueDate parses a DueDateLayout date at midnight in loc.
func ParseDueDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DueDateLayout, value, loc)
}

// IsValidDueDate reports whether value is a real calendar date in DueDateLayout.
func IsValidDueDate(value string) bool {
	_, err := time.Parse(DueDateLayout, value)
	return err == nil
}

// SortTasks orders tasks the way ListTasks returns them: by completion time
// descending when listing completed tasks, otherwise by due date ascending.
// Drivers that cannot order server-side use it.
func SortTasks(tasks []*Task, completed bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if completed {
			at, bt := int64(0), int64(0)
			if a.CompletedTs != nil {
				at = *a.CompletedTs
			}
			if b.CompletedTs != nil {
				bt = *b.CompletedTs
			}
			if at != bt {
				return at > bt
			}
			return a.ID < b.ID
		}
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		if a.CreatedTs != b.CreatedTs {
			return a.CreatedTs < b.CreatedTs
		}
		return a.ID < b.ID
	})
}
