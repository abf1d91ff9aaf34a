package firestore

import (
	"context"
	"fmt"
	"time"

	"github.com/hrygo/toeicplanner/store"
)

type goalDocument struct {
	TargetScore int32     `firestore:"targetScore"`
	ExamDate    *string   `firestore:"examDate"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func (d *DB) UpsertGoal(ctx context.Context, upsert *store.Goal) (*store.Goal, error) {
	ref := d.owner(upsert.OwnerID).Collection(profileCollection).Doc(goalsDocument)
	now := time.Now()

	createdAt := now
	snapshot, err := ref.Get(ctx)
	switch {
	case err == nil:
		var existing goalDocument
		if err := snapshot.DataTo(&existing); err == nil && !existing.CreatedAt.IsZero() {
			createdAt = existing.CreatedAt
		}
	case isNotFound(err):
	default:
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	doc := &goalDocument{
		TargetScore: upsert.TargetScore,
		ExamDate:    upsert.ExamDate,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}
	if _, err := ref.Set(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to upsert goal: %w", err)
	}
	upsert.CreatedTs = createdAt.Unix()
	upsert.UpdatedTs = now.Unix()
	return upsert, nil
}

func (d *DB) GetGoal(ctx context.Context, find *store.FindGoal) (*store.Goal, error) {
	snapshot, err := d.owner(find.OwnerID).Collection(profileCollection).Doc(goalsDocument).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	var doc goalDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode goal: %w", err)
	}
	goal := &store.Goal{
		OwnerID:     find.OwnerID,
		TargetScore: doc.TargetScore,
		CreatedTs:   doc.CreatedAt.Unix(),
		UpdatedTs:   doc.UpdatedAt.Unix(),
	}
	if doc.ExamDate != nil && *doc.ExamDate != "" {
		goal.ExamDate = doc.ExamDate
	}
	return goal, nil
}
