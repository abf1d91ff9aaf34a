package v1

import (
	"time"

	"github.com/hrygo/toeicplanner/plugin/encouragement"
	"github.com/hrygo/toeicplanner/server/calendar"
	"github.com/hrygo/toeicplanner/server/stats"
	"github.com/hrygo/toeicplanner/store"
)

// Task is the API representation of a study task.
type Task struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Category       store.TaskCategory    `json:"category"`
	CategoryLabel  string                `json:"categoryLabel"`
	Description    string                `json:"description"`
	DueDate        string                `json:"dueDate"`
	Completed      bool                  `json:"completed"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	CompletedAt    *time.Time            `json:"completedAt,omitempty"`
	CompletionData *store.CompletionData `json:"completionData,omitempty"`
}

// Goal is the API representation of the score goal.
type Goal struct {
	TargetScore int32     `json:"targetScore"`
	ExamDate    *string   `json:"examDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,oneof=reading listening grammar vocabulary mock-test other"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

type CreateTaskRangeRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,oneof=reading listening grammar vocabulary mock-test other"`
	Description string `json:"description"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Category    *string `json:"category" validate:"omitempty,oneof=reading listening grammar vocabulary mock-test other"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

type CompleteTaskRequest struct {
	Time       int32  `json:"time" validate:"gt=0"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy normal hard"`
	Focus      string `json:"focus" validate:"required,oneof=focused normal distracted"`
}

type SaveGoalRequest struct {
	TargetScore int32   `json:"targetScore" validate:"gte=0"`
	ExamDate    *string `json:"examDate" validate:"omitempty,datetime=2006-01-02"`
}

type CalendarActionRequest struct {
	TaskID     string               `json:"taskId" validate:"required"`
	Action     string               `json:"action" validate:"required,oneof=complete edit delete"`
	Completion *CompleteTaskRequest `json:"completion"`
	Update     *UpdateTaskRequest   `json:"update"`
}

type CompleteTaskResponse struct {
	Task          *Task                  `json:"task"`
	Encouragement *encouragement.Message `json:"encouragement"`
}

type GoalResponse struct {
	Goal *Goal `json:"goal"`
}

type StatsResponse struct {
	*stats.Overview
	Summary string `json:"summary"`
}

type CalendarTaskItem struct {
	Task    *Task             `json:"task"`
	Actions []calendar.Action `json:"actions"`
}

type CalendarDayResponse struct {
	Day        calendar.Day           `json:"day"`
	Selectable bool                   `json:"selectable"`
	Kind       calendar.SelectionKind `json:"kind"`
	Exam       *calendar.ExamDetail   `json:"exam,omitempty"`
	Tasks      []CalendarTaskItem     `json:"tasks"`
}

type CalendarActionResponse struct {
	Task          *Task                  `json:"task,omitempty"`
	Encouragement *encouragement.Message `json:"encouragement,omitempty"`
}

func (s *APIV1Service) convertTaskFromStore(task *store.Task) *Task {
	loc := s.Profile.Location()
	result := &Task{
		ID:             task.ID,
		Title:          task.Title,
		Category:       task.Category,
		CategoryLabel:  task.Category.Label(),
		Description:    task.Description,
		DueDate:        task.DueDate,
		Completed:      task.Completed,
		CreatedAt:      time.Unix(task.CreatedTs, 0).In(loc),
		UpdatedAt:      time.Unix(task.UpdatedTs, 0).In(loc),
		CompletionData: task.CompletionData,
	}
	if task.CompletedTs != nil {
		completedAt := time.Unix(*task.CompletedTs, 0).In(loc)
		result.CompletedAt = &completedAt
	}
	return result
}

func (s *APIV1Service) convertTasksFromStore(tasks []*store.Task) []*Task {
	result := make([]*Task, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, s.convertTaskFromStore(task))
	}
	return result
}

func (s *APIV1Service) convertGoalFromStore(goal *store.Goal) *Goal {
	if goal == nil {
		return nil
	}
	loc := s.Profile.Location()
	result := &Goal{
		TargetScore: goal.TargetScore,
		CreatedAt:   time.Unix(goal.CreatedTs, 0).In(loc),
		UpdatedAt:   time.Unix(goal.UpdatedTs, 0).In(loc),
	}
	if goal.HasExamDate() {
		examDate := *goal.ExamDate
		result.ExamDate = &examDate
	}
	return result
}
