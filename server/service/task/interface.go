package task

import (
	"context"

	"github.com/hrygo/toeicplanner/store"
)

// Service defines the business logic for study tasks of a single owner.
// Errors are *errors.ServiceError values carrying an error code.
type Service interface {
	// ListTasks returns the owner's tasks, ordered as the store orders them.
	ListTasks(ctx context.Context, ownerID string, req *ListTasksRequest) ([]*store.Task, error)

	// GetTask returns a task, or NOT_FOUND.
	GetTask(ctx context.Context, ownerID, id string) (*store.Task, error)

	// CreateTask validates and creates one task.
	CreateTask(ctx context.Context, ownerID string, create *CreateTaskRequest) (*store.Task, error)

	// CreateTasksInRange creates one task per calendar day in [StartDate, EndDate].
	// Creation is not atomic: when a store write fails, the tasks created for
	// earlier days remain and are returned together with the error.
	CreateTasksInRange(ctx context.Context, ownerID string, create *CreateTaskRangeRequest) ([]*store.Task, error)

	// UpdateTask applies the set fields of update. Completion cannot be changed here.
	UpdateTask(ctx context.Context, ownerID, id string, update *UpdateTaskRequest) (*store.Task, error)

	// CompleteTask marks an incomplete task completed with its reflection.
	// Completing a completed task fails with FAILED_PRECONDITION.
	CompleteTask(ctx context.Context, ownerID, id string, data *store.CompletionData) (*store.Task, error)

	// DeleteTask deletes a task, or returns NOT_FOUND.
	DeleteTask(ctx context.Context, ownerID, id string) error
}

// ListTasksRequest filters ListTasks. Nil fields do not filter.
type ListTasksRequest struct {
	Completed *bool
	Category  *store.TaskCategory
	// Inclusive due date range.
	From *string
	To   *string

	Limit  *int
	Offset *int
}

// CreateTaskRequest represents the request to create a task.
type CreateTaskRequest struct {
	Title       string
	Category    store.TaskCategory
	Description string
	DueDate     string
}

// CreateTaskRangeRequest represents the request to create the same task on
// every day of a date range.
type CreateTaskRangeRequest struct {
	Title       string
	Category    store.TaskCategory
	Description string
	StartDate   string
	EndDate     string
}

// UpdateTaskRequest represents the request to update a task.
type UpdateTaskRequest struct {
	Title       *string
	Category    *store.TaskCategory
	Description *string
	DueDate     *string
}
