package goal

import (
	"context"

	"github.com/hrygo/toeicplanner/store"
)

// Service defines the business logic for the score goal of an owner.
type Service interface {
	// GetGoal returns the owner's goal, or nil when none was saved.
	GetGoal(ctx context.Context, ownerID string) (*store.Goal, error)

	// SaveGoal creates or replaces the owner's goal.
	SaveGoal(ctx context.Context, ownerID string, save *SaveGoalRequest) (*store.Goal, error)
}

// SaveGoalRequest represents the request to save a goal.
type SaveGoalRequest struct {
	// TargetScore has no upper bound; 0 means no target.
	TargetScore int32
	// ExamDate is nil or empty when no exam is scheduled.
	ExamDate *string
}
