package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hrygo/toeicplanner/store"
)

// DB keeps every record in process memory. It backs tests and throwaway
// demo instances; nothing survives a restart.
type DB struct {
	mu       sync.RWMutex
	tasks    map[string]map[string]*store.Task // owner -> id -> task
	goals    map[string]*store.Goal
	kv       map[string]map[string]string // owner -> key -> value
	settings map[string]string
}

// NewDB returns an empty in-memory driver.
func NewDB() store.Driver {
	return &DB{
		tasks:    make(map[string]map[string]*store.Task),
		goals:    make(map[string]*store.Goal),
		kv:       make(map[string]map[string]string),
		settings: make(map[string]string),
	}
}

func (d *DB) GetDB() *sql.DB {
	return nil
}

func (d *DB) Close() error {
	return nil
}

func (d *DB) IsInitialized(_ context.Context) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.settings[store.SystemSettingSchemaVersionName]
	return ok, nil
}

func cloneTask(task *store.Task) *store.Task {
	clone := *task
	if task.CompletedTs != nil {
		ts := *task.CompletedTs
		clone.CompletedTs = &ts
	}
	if task.CompletionData != nil {
		data := *task.CompletionData
		clone.CompletionData = &data
	}
	return &clone
}

func (d *DB) CreateTask(_ context.Context, create *store.Task) (*store.Task, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	owned := d.tasks[create.OwnerID]
	if owned == nil {
		owned = make(map[string]*store.Task)
		d.tasks[create.OwnerID] = owned
	}
	if _, exists := owned[create.ID]; exists {
		return nil, fmt.Errorf("failed to create task: duplicate id %s", create.ID)
	}

	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = now
	}
	owned[create.ID] = cloneTask(create)
	return create, nil
}

func (d *DB) ListTasks(_ context.Context, find *store.FindTask) ([]*store.Task, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]*store.Task, 0)
	for ownerID, owned := range d.tasks {
		if find.OwnerID != nil && *find.OwnerID != ownerID {
			continue
		}
		for _, task := range owned {
			if v := find.ID; v != nil && task.ID != *v {
				continue
			}
			if v := find.Completed; v != nil && task.Completed != *v {
				continue
			}
			if v := find.Category; v != nil && task.Category != *v {
				continue
			}
			if v := find.DueDateFrom; v != nil && task.DueDate < *v {
				continue
			}
			if v := find.DueDateTo; v != nil && task.DueDate > *v {
				continue
			}
			list = append(list, cloneTask(task))
		}
	}

	store.SortTasks(list, find.Completed != nil && *find.Completed)

	if find.Offset != nil {
		if *find.Offset >= len(list) {
			return []*store.Task{}, nil
		}
		list = list[*find.Offset:]
	}
	if find.Limit != nil && *find.Limit < len(list) {
		list = list[:*find.Limit]
	}
	return list, nil
}

func (d *DB) UpdateTask(_ context.Context, update *store.UpdateTask) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	task, ok := d.tasks[update.OwnerID][update.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	if update.RequireIncomplete && task.Completed {
		return store.ErrTaskAlreadyCompleted
	}
	if v := update.UpdatedTs; v != nil {
		task.UpdatedTs = *v
	}
	if v := update.Title; v != nil {
		task.Title = *v
	}
	if v := update.Category; v != nil {
		task.Category = *v
	}
	if v := update.Description; v != nil {
		task.Description = *v
	}
	if v := update.DueDate; v != nil {
		task.DueDate = *v
	}
	if v := update.Completed; v != nil {
		task.Completed = *v
	}
	if v := update.CompletedTs; v != nil {
		ts := *v
		task.CompletedTs = &ts
	}
	if v := update.CompletionData; v != nil {
		data := *v
		task.CompletionData = &data
	}
	return nil
}

func (d *DB) DeleteTask(_ context.Context, del *store.DeleteTask) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.tasks[del.OwnerID][del.ID]; !ok {
		return store.ErrTaskNotFound
	}
	delete(d.tasks[del.OwnerID], del.ID)
	if len(d.tasks[del.OwnerID]) == 0 {
		delete(d.tasks, del.OwnerID)
	}
	return nil
}

func (d *DB) ListTaskOwners(_ context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	owners := make([]string, 0, len(d.tasks))
	for ownerID, owned := range d.tasks {
		if len(owned) > 0 {
			owners = append(owners, ownerID)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

func (d *DB) UpsertGoal(_ context.Context, upsert *store.Goal) (*store.Goal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now().Unix()
	upsert.CreatedTs = now
	if existing, ok := d.goals[upsert.OwnerID]; ok {
		upsert.CreatedTs = existing.CreatedTs
	}
	upsert.UpdatedTs = now

	stored := *upsert
	if upsert.ExamDate != nil {
		examDate := *upsert.ExamDate
		stored.ExamDate = &examDate
	}
	d.goals[upsert.OwnerID] = &stored
	return upsert, nil
}

func (d *DB) GetGoal(_ context.Context, find *store.FindGoal) (*store.Goal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	goal, ok := d.goals[find.OwnerID]
	if !ok {
		return nil, nil
	}
	clone := *goal
	if goal.ExamDate != nil {
		examDate := *goal.ExamDate
		clone.ExamDate = &examDate
	}
	return &clone, nil
}

func (d *DB) GetKeyValue(_ context.Context, find *store.FindKeyValue) (*store.KeyValue, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	value, ok := d.kv[find.OwnerID][find.Key]
	if !ok {
		return nil, nil
	}
	return &store.KeyValue{OwnerID: find.OwnerID, Key: find.Key, Value: value}, nil
}

func (d *DB) UpsertKeyValue(_ context.Context, upsert *store.KeyValue) (*store.KeyValue, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.kv[upsert.OwnerID] == nil {
		d.kv[upsert.OwnerID] = make(map[string]string)
	}
	d.kv[upsert.OwnerID][upsert.Key] = upsert.Value
	return upsert, nil
}

func (d *DB) DeleteKeyValue(_ context.Context, del *store.DeleteKeyValue) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.kv[del.OwnerID], del.Key)
	return nil
}

func (d *DB) UpsertSystemSetting(_ context.Context, upsert *store.SystemSetting) (*store.SystemSetting, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.settings[upsert.Name] = upsert.Value
	return upsert, nil
}

func (d *DB) ListSystemSettings(_ context.Context, find *store.FindSystemSetting) ([]*store.SystemSetting, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := []*store.SystemSetting{}
	for name, value := range d.settings {
		if find.Name != "" && find.Name != name {
			continue
		}
		list = append(list, &store.SystemSetting{Name: name, Value: value})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
