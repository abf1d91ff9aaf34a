package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hrygo/toeicplanner/store"
)

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	completionData, err := marshalCompletionData(create.CompletionData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion data: %w", err)
	}

	fields := []string{
		"id", "owner_id", "title", "category", "description", "due_date",
		"completed", "completed_ts", "completion_data",
	}
	placeholderValues := []any{
		create.ID, create.OwnerID, create.Title, string(create.Category), create.Description, create.DueDate,
		create.Completed, create.CompletedTs, completionData,
	}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields = append(fields, "updated_ts")
		placeholderValues = append(placeholderValues, create.UpdatedTs)
	}

	stmt := `INSERT INTO task (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return create, nil
}

func (d *DB) ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "task.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.OwnerID; v != nil {
		where, args = append(where, "task.owner_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Completed; v != nil {
		where, args = append(where, "task.completed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "task.category = "+placeholder(len(args)+1)), append(args, string(*v))
	}
	if v := find.DueDateFrom; v != nil {
		where, args = append(where, "task.due_date >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DueDateTo; v != nil {
		where, args = append(where, "task.due_date <= "+placeholder(len(args)+1)), append(args, *v)
	}

	orderBy := "ORDER BY task.due_date ASC, task.created_ts ASC, task.id ASC"
	if find.Completed != nil && *find.Completed {
		orderBy = "ORDER BY task.completed_ts DESC, task.id ASC"
	}

	query := `
		SELECT
			id, owner_id, title, category, description, due_date,
			completed, created_ts, updated_ts, completed_ts, completion_data
		FROM task
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderBy

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}
	if find.Offset != nil {
		query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Task, 0)
	for rows.Next() {
		var task store.Task
		var category string
		var completedTs sql.NullInt64
		var completionData []byte

		if err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Title,
			&category,
			&task.Description,
			&task.DueDate,
			&task.Completed,
			&task.CreatedTs,
			&task.UpdatedTs,
			&completedTs,
			&completionData,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task.Category = store.TaskCategory(category)
		if completedTs.Valid {
			task.CompletedTs = &completedTs.Int64
		}
		if completionData != nil {
			data, err := unmarshalCompletionData(completionData)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal completion data of task %s: %w", task.ID, err)
			}
			task.CompletionData = data
		}

		list = append(list, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) error {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Category; v != nil {
		set, args = append(set, "category = "+placeholder(len(args)+1)), append(args, string(*v))
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.DueDate; v != nil {
		set, args = append(set, "due_date = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Completed; v != nil {
		set, args = append(set, "completed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.CompletedTs; v != nil {
		set, args = append(set, "completed_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.CompletionData; v != nil {
		raw, err := marshalCompletionData(v)
		if err != nil {
			return fmt.Errorf("failed to marshal completion data: %w", err)
		}
		set, args = append(set, "completion_data = "+placeholder(len(args)+1)), append(args, raw)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID, update.OwnerID)
	stmt := `UPDATE task SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)-1) + ` AND owner_id = ` + placeholder(len(args))
	if update.RequireIncomplete {
		stmt += ` AND completed = FALSE`
	}
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return d.missedUpdate(ctx, update)
	}

	return nil
}

// missedUpdate explains an update that changed no row.
func (d *DB) missedUpdate(ctx context.Context, update *store.UpdateTask) error {
	if !update.RequireIncomplete {
		return store.ErrTaskNotFound
	}
	var exists int
	err := d.db.QueryRowContext(ctx, `SELECT 1 FROM task WHERE id = $1 AND owner_id = $2`, update.ID, update.OwnerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	return store.ErrTaskAlreadyCompleted
}

func (d *DB) DeleteTask(ctx context.Context, delete *store.DeleteTask) error {
	stmt := `DELETE FROM task WHERE id = ` + placeholder(1) + ` AND owner_id = ` + placeholder(2)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

func (d *DB) ListTaskOwners(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT owner_id FROM task ORDER BY owner_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query task owners: %w", err)
	}
	defer rows.Close()

	owners := make([]string, 0)
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("failed to scan task owner: %w", err)
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task owners: %w", err)
	}
	return owners, nil
}
