package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hrygo/toeicplanner/store"
)

func (d *DB) UpsertGoal(ctx context.Context, upsert *store.Goal) (*store.Goal, error) {
	stmt := `
		INSERT INTO goal (owner_id, target_score, exam_date, updated_ts)
		VALUES (?, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(owner_id) DO UPDATE
		SET
			target_score = EXCLUDED.target_score,
			exam_date = EXCLUDED.exam_date,
			updated_ts = EXCLUDED.updated_ts
		RETURNING created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, upsert.OwnerID, upsert.TargetScore, upsert.ExamDate).Scan(
		&upsert.CreatedTs,
		&upsert.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert goal: %w", err)
	}
	return upsert, nil
}

func (d *DB) GetGoal(ctx context.Context, find *store.FindGoal) (*store.Goal, error) {
	goal := &store.Goal{}
	var examDate sql.NullString
	err := d.db.QueryRowContext(ctx, `
		SELECT owner_id, target_score, exam_date, created_ts, updated_ts
		FROM goal
		WHERE owner_id = ?`, find.OwnerID).Scan(
		&goal.OwnerID,
		&goal.TargetScore,
		&examDate,
		&goal.CreatedTs,
		&goal.UpdatedTs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	if examDate.Valid && examDate.String != "" {
		goal.ExamDate = &examDate.String
	}
	return goal, nil
}
