package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/hrygo/toeicplanner/store"
)

type taskDocument struct {
	Title          string                `firestore:"title"`
	Category       string                `firestore:"category"`
	Description    string                `firestore:"description"`
	DueDate        string                `firestore:"dueDate"`
	Completed      bool                  `firestore:"completed"`
	CreatedAt      time.Time             `firestore:"createdAt"`
	UpdatedAt      time.Time             `firestore:"updatedAt"`
	CompletedAt    *time.Time            `firestore:"completedAt,omitempty"`
	CompletionData *store.CompletionData `firestore:"completionData,omitempty"`
}

func toTaskDocument(task *store.Task) *taskDocument {
	doc := &taskDocument{
		Title:          task.Title,
		Category:       string(task.Category),
		Description:    task.Description,
		DueDate:        task.DueDate,
		Completed:      task.Completed,
		CreatedAt:      time.Unix(task.CreatedTs, 0),
		UpdatedAt:      time.Unix(task.UpdatedTs, 0),
		CompletionData: task.CompletionData,
	}
	if task.CompletedTs != nil {
		completedAt := time.Unix(*task.CompletedTs, 0)
		doc.CompletedAt = &completedAt
	}
	return doc
}

func (doc *taskDocument) toTask(id, ownerID string) *store.Task {
	task := &store.Task{
		ID:             id,
		OwnerID:        ownerID,
		Title:          doc.Title,
		Category:       store.TaskCategory(doc.Category),
		Description:    doc.Description,
		DueDate:        doc.DueDate,
		Completed:      doc.Completed,
		CreatedTs:      doc.CreatedAt.Unix(),
		UpdatedTs:      doc.UpdatedAt.Unix(),
		CompletionData: doc.CompletionData,
	}
	if doc.CompletedAt != nil {
		completedTs := doc.CompletedAt.Unix()
		task.CompletedTs = &completedTs
	}
	return task
}

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = now
	}
	if _, err := d.tasks(create.OwnerID).Doc(create.ID).Create(ctx, toTaskDocument(create)); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return create, nil
}

// ListTasks pushes equality filters to Firestore and applies the date range,
// ordering and pagination in memory, which avoids composite index requirements.
func (d *DB) ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error) {
	if find.OwnerID == nil {
		return nil, fmt.Errorf("firestore task queries require an owner")
	}
	ownerID := *find.OwnerID

	if find.ID != nil {
		snapshot, err := d.tasks(ownerID).Doc(*find.ID).Get(ctx)
		if isNotFound(err) {
			return []*store.Task{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get task: %w", err)
		}
		var doc taskDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		task := doc.toTask(snapshot.Ref.ID, ownerID)
		if !matchesTask(task, find) {
			return []*store.Task{}, nil
		}
		return []*store.Task{task}, nil
	}

	query := d.tasks(ownerID).Query
	if v := find.Completed; v != nil {
		query = query.Where("completed", "==", *v)
	}
	if v := find.Category; v != nil {
		query = query.Where("category", "==", string(*v))
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	list := make([]*store.Task, 0)
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query tasks: %w", err)
		}
		var doc taskDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode task %s: %w", snapshot.Ref.ID, err)
		}
		task := doc.toTask(snapshot.Ref.ID, ownerID)
		if matchesTask(task, find) {
			list = append(list, task)
		}
	}

	store.SortTasks(list, find.Completed != nil && *find.Completed)
	return paginate(list, find.Limit, find.Offset), nil
}

func matchesTask(task *store.Task, find *store.FindTask) bool {
	if v := find.Completed; v != nil && task.Completed != *v {
		return false
	}
	if v := find.Category; v != nil && task.Category != *v {
		return false
	}
	if v := find.DueDateFrom; v != nil && task.DueDate < *v {
		return false
	}
	if v := find.DueDateTo; v != nil && task.DueDate > *v {
		return false
	}
	return true
}

func paginate(list []*store.Task, limit, offset *int) []*store.Task {
	if offset != nil {
		if *offset >= len(list) {
			return []*store.Task{}
		}
		list = list[*offset:]
	}
	if limit != nil && *limit < len(list) {
		list = list[:*limit]
	}
	return list
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) error {
	updates := []firestore.Update{}
	if v := update.UpdatedTs; v != nil {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Unix(*v, 0)})
	}
	if v := update.Title; v != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *v})
	}
	if v := update.Category; v != nil {
		updates = append(updates, firestore.Update{Path: "category", Value: string(*v)})
	}
	if v := update.Description; v != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *v})
	}
	if v := update.DueDate; v != nil {
		updates = append(updates, firestore.Update{Path: "dueDate", Value: *v})
	}
	if v := update.Completed; v != nil {
		updates = append(updates, firestore.Update{Path: "completed", Value: *v})
	}
	if v := update.CompletedTs; v != nil {
		updates = append(updates, firestore.Update{Path: "completedAt", Value: time.Unix(*v, 0)})
	}
	if v := update.CompletionData; v != nil {
		updates = append(updates, firestore.Update{Path: "completionData", Value: *v})
	}
	if len(updates) == 0 {
		return nil
	}

	ref := d.tasks(update.OwnerID).Doc(update.ID)
	if update.RequireIncomplete {
		return d.updateIncompleteTask(ctx, ref, updates)
	}
	if _, err := ref.Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return store.ErrTaskNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// updateIncompleteTask applies updates in a transaction that first checks the
// task is still incomplete.
func (d *DB) updateIncompleteTask(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	err := d.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if completed, _ := snapshot.Data()["completed"].(bool); completed {
			return store.ErrTaskAlreadyCompleted
		}
		return tx.Update(ref, updates)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrTaskAlreadyCompleted):
		return store.ErrTaskAlreadyCompleted
	case isNotFound(err):
		return store.ErrTaskNotFound
	default:
		return fmt.Errorf("failed to update task: %w", err)
	}
}

func (d *DB) DeleteTask(ctx context.Context, delete *store.DeleteTask) error {
	ref := d.tasks(delete.OwnerID).Doc(delete.ID)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return store.ErrTaskNotFound
		}
		return fmt.Errorf("failed to get task: %w", err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (d *DB) ListTaskOwners(ctx context.Context) ([]string, error) {
	iter := d.client.Collection(usersCollection).DocumentRefs(ctx)
	owners := make([]string, 0)
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list owners: %w", err)
		}

		tasks := ref.Collection(tasksCollection).Limit(1).Documents(ctx)
		_, err = tasks.Next()
		tasks.Stop()
		if err == iterator.Done {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check tasks of owner %s: %w", ref.ID, err)
		}
		owners = append(owners, ref.ID)
	}
	sort.Strings(owners)
	return owners, nil
}
