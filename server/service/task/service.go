// Package task provides study task management: creation (single or one per
// day over a range), listing, partial updates, one-time completion with a
// reflection, and deletion.
package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"

	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/server/internal/observability"
	"github.com/hrygo/toeicplanner/server/timezone"
	"github.com/hrygo/toeicplanner/store"
)

type service struct {
	store Store
	now   func() time.Time
	newID func() string
}

// Store is the interface for store operations needed by the task service.
type Store interface {
	CreateTask(ctx context.Context, create *store.Task) (*store.Task, error)
	ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error)
	GetTask(ctx context.Context, find *store.FindTask) (*store.Task, error)
	UpdateTask(ctx context.Context, update *store.UpdateTask) error
	DeleteTask(ctx context.Context, delete *store.DeleteTask) error
}

// NewService creates a new task service.
func NewService(st Store) Service {
	return &service{
		store: st,
		now:   time.Now,
		newID: shortuuid.New,
	}
}

func (s *service) ListTasks(ctx context.Context, ownerID string, req *ListTasksRequest) ([]*store.Task, error) {
	if req == nil {
		req = &ListTasksRequest{}
	}
	if req.Category != nil {
		if err := validateCategory(*req.Category); err != nil {
			return nil, err
		}
	}
	if req.From != nil {
		if err := validateDate("from", *req.From); err != nil {
			return nil, err
		}
	}
	if req.To != nil {
		if err := validateDate("to", *req.To); err != nil {
			return nil, err
		}
	}

	list, err := s.store.ListTasks(ctx, &store.FindTask{
		OwnerID:     &ownerID,
		Completed:   req.Completed,
		Category:    req.Category,
		DueDateFrom: req.From,
		DueDateTo:   req.To,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		return nil, serviceerrors.Internal("failed to list tasks", err)
	}
	return list, nil
}

func (s *service) GetTask(ctx context.Context, ownerID, id string) (*store.Task, error) {
	task, err := s.store.GetTask(ctx, &store.FindTask{ID: &id, OwnerID: &ownerID})
	if err != nil {
		return nil, serviceerrors.Internal("failed to get task", err)
	}
	if task == nil {
		return nil, serviceerrors.NotFound("task %s not found", id)
	}
	return task, nil
}

func (s *service) CreateTask(ctx context.Context, ownerID string, create *CreateTaskRequest) (*store.Task, error) {
	title, err := normalizeTitle(create.Title)
	if err != nil {
		return nil, err
	}
	if err := validateCategory(create.Category); err != nil {
		return nil, err
	}
	if err := validateDate("dueDate", create.DueDate); err != nil {
		return nil, err
	}

	task, err := s.store.CreateTask(ctx, s.newTask(ownerID, title, create.Category, create.Description, create.DueDate))
	if err != nil {
		return nil, serviceerrors.Internal("failed to create task", err)
	}
	observability.LoggerFromContext(ctx).Debug("task created", slog.String(observability.LogFieldTaskID, task.ID))
	return task, nil
}

func (s *service) CreateTasksInRange(ctx context.Context, ownerID string, create *CreateTaskRangeRequest) ([]*store.Task, error) {
	title, err := normalizeTitle(create.Title)
	if err != nil {
		return nil, err
	}
	if err := validateCategory(create.Category); err != nil {
		return nil, err
	}
	if err := validateDate("startDate", create.StartDate); err != nil {
		return nil, err
	}
	if err := validateDate("endDate", create.EndDate); err != nil {
		return nil, err
	}
	days, err := timezone.DaysBetween(create.StartDate, create.EndDate)
	if err != nil {
		return nil, serviceerrors.InvalidArgument("invalid date range: %v", err)
	}
	if days < 0 {
		return nil, serviceerrors.InvalidArgument("endDate %s is before startDate %s", create.EndDate, create.StartDate)
	}
	if days+1 > MaxRangeDays {
		return nil, serviceerrors.InvalidArgument("date range covers %d days, at most %d allowed", days+1, MaxRangeDays)
	}

	dates, err := timezone.DateRange(create.StartDate, create.EndDate)
	if err != nil {
		return nil, serviceerrors.InvalidArgument("invalid date range: %v", err)
	}
	created := make([]*store.Task, 0, len(dates))
	for _, date := range dates {
		task, err := s.store.CreateTask(ctx, s.newTask(ownerID, title, create.Category, create.Description, date))
		if err != nil {
			return created, serviceerrors.Internal("failed to create task", err).WithContext("dueDate", date)
		}
		created = append(created, task)
	}
	observability.LoggerFromContext(ctx).Debug("task range created", slog.Int("count", len(created)))
	return created, nil
}

func (s *service) UpdateTask(ctx context.Context, ownerID, id string, update *UpdateTaskRequest) (*store.Task, error) {
	if _, err := s.GetTask(ctx, ownerID, id); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	storeUpdate := &store.UpdateTask{
		ID:          id,
		OwnerID:     ownerID,
		UpdatedTs:   &now,
		Category:    update.Category,
		Description: update.Description,
		DueDate:     update.DueDate,
	}
	if update.Title != nil {
		title, err := normalizeTitle(*update.Title)
		if err != nil {
			return nil, err
		}
		storeUpdate.Title = &title
	}
	if update.Category != nil {
		if err := validateCategory(*update.Category); err != nil {
			return nil, err
		}
	}
	if update.DueDate != nil {
		if err := validateDate("dueDate", *update.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateTask(ctx, storeUpdate); err != nil {
		return nil, serviceerrors.Internal("failed to update task", err)
	}
	return s.GetTask(ctx, ownerID, id)
}

func (s *service) CompleteTask(ctx context.Context, ownerID, id string, data *store.CompletionData) (*store.Task, error) {
	task, err := s.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return nil, serviceerrors.FailedPrecondition("task %s is already completed", id)
	}
	if err := validateCompletion(data); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	completed := true
	completion := *data
	err = s.store.UpdateTask(ctx, &store.UpdateTask{
		ID:                id,
		OwnerID:           ownerID,
		UpdatedTs:         &now,
		Completed:         &completed,
		CompletedTs:       &now,
		CompletionData:    &completion,
		RequireIncomplete: true,
	})
	switch {
	case errors.Is(err, store.ErrTaskAlreadyCompleted):
		return nil, serviceerrors.FailedPrecondition("task %s is already completed", id)
	case errors.Is(err, store.ErrTaskNotFound):
		return nil, serviceerrors.NotFound("task %s not found", id)
	case err != nil:
		return nil, serviceerrors.Internal("failed to complete task", err)
	}
	observability.LoggerFromContext(ctx).Info("task completed",
		slog.String(observability.LogFieldTaskID, id),
		slog.Int("minutes", int(data.Time)))
	return s.GetTask(ctx, ownerID, id)
}

func (s *service) DeleteTask(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetTask(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, &store.DeleteTask{ID: id, OwnerID: ownerID}); err != nil {
		return serviceerrors.Internal("failed to delete task", err)
	}
	return nil
}

func (s *service) newTask(ownerID, title string, category store.TaskCategory, description, dueDate string) *store.Task {
	now := s.now().Unix()
	return &store.Task{
		ID:          s.newID(),
		OwnerID:     ownerID,
		Title:       title,
		Category:    category,
		Description: description,
		DueDate:     dueDate,
		CreatedTs:   now,
		UpdatedTs:   now,
	}
}
