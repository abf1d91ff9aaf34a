package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	// GetDB returns the SQL handle, or nil for drivers that are not SQL databases.
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Task model related methods.
	CreateTask(ctx context.Context, create *Task) (*Task, error)
	ListTasks(ctx context.Context, find *FindTask) ([]*Task, error)
	UpdateTask(ctx context.Context, update *UpdateTask) error
	DeleteTask(ctx context.Context, delete *DeleteTask) error
	ListTaskOwners(ctx context.Context) ([]string, error)

	// Goal model related methods.
	UpsertGoal(ctx context.Context, upsert *Goal) (*Goal, error)
	GetGoal(ctx context.Context, find *FindGoal) (*Goal, error)

	// KeyValue model related methods.
	GetKeyValue(ctx context.Context, find *FindKeyValue) (*KeyValue, error)
	UpsertKeyValue(ctx context.Context, upsert *KeyValue) (*KeyValue, error)
	DeleteKeyValue(ctx context.Context, delete *DeleteKeyValue) error

	// SystemSetting model related methods.
	UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error)
	ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error)
}
