package store

import (
	"context"
)

// Goal is the target score and optional exam date of an owner.
type Goal struct {
	OwnerID     string
	TargetScore int32
	// ExamDate is in DueDateLayout, nil when not set.
	ExamDate  *string
	CreatedTs int64
	UpdatedTs int64
}

// FindGoal is the find condition for goal.
type FindGoal struct {
	OwnerID string
}

// HasExamDate reports whether an exam date is set.
func (g *Goal) HasExamDate() bool {
	return g != nil && g.ExamDate != nil && *g.ExamDate != ""
}

// UpsertGoal creates or replaces the goal of an owner.
func (s *Store) UpsertGoal(ctx context.Context, upsert *Goal) (*Goal, error) {
	goal, err := s.driver.UpsertGoal(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.goalCache.Set(ctx, upsert.OwnerID, goal.clone())
	s.notifyChange(upsert.OwnerID)
	return goal, nil
}

// GetGoal returns the goal of an owner, or nil when none was saved.
func (s *Store) GetGoal(ctx context.Context, find *FindGoal) (*Goal, error) {
	if cached, ok := s.goalCache.Get(ctx, find.OwnerID); ok {
		if goal, ok := cached.(*Goal); ok {
			return goal.clone(), nil
		}
	}

	goal, err := s.driver.GetGoal(ctx, find)
	if err != nil {
		return nil, err
	}
	if goal != nil {
		s.goalCache.Set(ctx, find.OwnerID, goal.clone())
	}
	return goal, nil
}

func (g *Goal) clone() *Goal {
	clone := *g
	if g.ExamDate != nil {
		examDate := *g.ExamDate
		clone.ExamDate = &examDate
	}
	return &clone
}
