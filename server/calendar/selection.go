package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrygo/toeicplanner/server/timezone"
	"github.com/hrygo/toeicplanner/store"
)

// SelectionKind is what clicking a day opens.
type SelectionKind string

const (
	SelectionNone  SelectionKind = "none"
	SelectionExam  SelectionKind = "exam"
	SelectionTasks SelectionKind = "tasks"
)

// Action is a per-task operation offered in the day's task list.
type Action string

const (
	ActionComplete Action = "complete"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
)

// ErrActionNotAllowed is returned when an action is not offered for a task.
var ErrActionNotAllowed = errors.New("action not allowed")

// ExamDetail is the exam-day detail view.
type ExamDetail struct {
	Date          string `json:"date"`
	FormattedDate string `json:"formattedDate"`
	TargetScore   int32  `json:"targetScore"`
	DateLabel     string `json:"dateLabel"`
	ScoreLabel    string `json:"scoreLabel"`
}

// TaskItem is a task of the selected day with its available actions.
type TaskItem struct {
	Task    *store.Task `json:"task"`
	Actions []Action    `json:"actions"`
}

// Selection is the result of clicking a day.
type Selection struct {
	Date  string        `json:"date"`
	Kind  SelectionKind `json:"kind"`
	Exam  *ExamDetail   `json:"exam,omitempty"`
	Tasks []TaskItem    `json:"tasks,omitempty"`
}

// Select returns what clicking day opens: the exam detail on the exam day,
// the task list on days with tasks, nothing on empty days.
func Select(day Day, goal *store.Goal) *Selection {
	selection := &Selection{Date: day.Date, Kind: SelectionNone}

	switch day.State {
	case StateExam:
		selection.Kind = SelectionExam
		selection.Exam = newExamDetail(day.Date, goal)
	case StateEmpty:
	default:
		selection.Kind = SelectionTasks
		selection.Tasks = make([]TaskItem, 0, len(day.Tasks))
		for _, task := range day.Tasks {
			selection.Tasks = append(selection.Tasks, TaskItem{Task: task, Actions: actionsFor(task)})
		}
	}
	return selection
}

func newExamDetail(date string, goal *store.Goal) *ExamDetail {
	formatted, err := timezone.FormatJapaneseDate(date)
	if err != nil {
		formatted = date
	}
	detail := &ExamDetail{
		Date:          date,
		FormattedDate: formatted,
		DateLabel:     "🎯 試験日: " + formatted,
	}
	if goal != nil {
		detail.TargetScore = goal.TargetScore
	}
	detail.ScoreLabel = fmt.Sprintf("目標スコア: %d点", detail.TargetScore)
	return detail
}

func actionsFor(task *store.Task) []Action {
	if task.Completed {
		return []Action{ActionEdit, ActionDelete}
	}
	return []Action{ActionComplete, ActionEdit, ActionDelete}
}

// Callbacks perform the per-task actions of a selection.
type Callbacks struct {
	Complete func(ctx context.Context, taskID string) error
	Edit     func(ctx context.Context, taskID string) error
	Delete   func(ctx context.Context, taskID string) error
}

// Perform runs action on the task taskID of the selection through callbacks.
// Actions not offered for that task, and every action on exam or empty days,
// fail with ErrActionNotAllowed.
func (s *Selection) Perform(ctx context.Context, action Action, taskID string, callbacks Callbacks) error {
	for _, item := range s.Tasks {
		if item.Task.ID != taskID {
			continue
		}
		for _, allowed := range item.Actions {
			if allowed != action {
				continue
			}
			var fn func(context.Context, string) error
			switch action {
			case ActionComplete:
				fn = callbacks.Complete
			case ActionEdit:
				fn = callbacks.Edit
			case ActionDelete:
				fn = callbacks.Delete
			}
			if fn == nil {
				return fmt.Errorf("no callback for %s", action)
			}
			return fn(ctx, taskID)
		}
		break
	}
	return fmt.Errorf("%w: %s on task %s", ErrActionNotAllowed, action, taskID)
}
