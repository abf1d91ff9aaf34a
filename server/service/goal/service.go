// Package goal manages the target score and exam date of an owner.
package goal

import (
	"context"
	"log/slog"

	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/server/internal/observability"
	"github.com/hrygo/toeicplanner/store"
)

type service struct {
	store Store
}

// Store is the interface for store operations needed by the goal service.
type Store interface {
	GetGoal(ctx context.Context, find *store.FindGoal) (*store.Goal, error)
	UpsertGoal(ctx context.Context, upsert *store.Goal) (*store.Goal, error)
}

// NewService creates a new goal service.
func NewService(st Store) Service {
	return &service{store: st}
}

func (s *service) GetGoal(ctx context.Context, ownerID string) (*store.Goal, error) {
	goal, err := s.store.GetGoal(ctx, &store.FindGoal{OwnerID: ownerID})
	if err != nil {
		return nil, serviceerrors.Internal("failed to get goal", err)
	}
	return goal, nil
}

func (s *service) SaveGoal(ctx context.Context, ownerID string, save *SaveGoalRequest) (*store.Goal, error) {
	if save.TargetScore < 0 {
		return nil, serviceerrors.InvalidArgument("target score must not be negative").WithContext("field", "targetScore")
	}

	var examDate *string
	if save.ExamDate != nil && *save.ExamDate != "" {
		if !store.IsValidDueDate(*save.ExamDate) {
			return nil, serviceerrors.InvalidArgument("exam date must be a date in YYYY-MM-DD format, got %q", *save.ExamDate).WithContext("field", "examDate")
		}
		value := *save.ExamDate
		examDate = &value
	}

	goal, err := s.store.UpsertGoal(ctx, &store.Goal{
		OwnerID:     ownerID,
		TargetScore: save.TargetScore,
		ExamDate:    examDate,
	})
	if err != nil {
		return nil, serviceerrors.Internal("failed to save goal", err)
	}
	observability.LoggerFromContext(ctx).Info("goal saved",
		slog.Int("targetScore", int(goal.TargetScore)),
		slog.Bool("hasExamDate", goal.HasExamDate()))
	return goal, nil
}
