package goal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/store"
)

// MockStore is an in-memory goal store.
type MockStore struct {
	goals map[string]*store.Goal
	err   error
}

func NewMockStore() *MockStore {
	return &MockStore{goals: make(map[string]*store.Goal)}
}

func (m *MockStore) GetGoal(_ context.Context, find *store.FindGoal) (*store.Goal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.goals[find.OwnerID], nil
}

func (m *MockStore) UpsertGoal(_ context.Context, upsert *store.Goal) (*store.Goal, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.goals[upsert.OwnerID] = upsert
	return upsert, nil
}

func ptr(s string) *string {
	return &s
}

func TestSaveGoal(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		save     SaveGoalRequest
		wantErr  bool
		wantDate *string
	}{
		{name: "score and date", save: SaveGoalRequest{TargetScore: 800, ExamDate: ptr("2025-12-31")}, wantDate: ptr("2025-12-31")},
		{name: "no exam date", save: SaveGoalRequest{TargetScore: 600}},
		{name: "empty exam date clears", save: SaveGoalRequest{TargetScore: 600, ExamDate: ptr("")}},
		{name: "zero score", save: SaveGoalRequest{TargetScore: 0}},
		{name: "no upper bound", save: SaveGoalRequest{TargetScore: 1200}},
		{name: "negative score", save: SaveGoalRequest{TargetScore: -1}, wantErr: true},
		{name: "bad exam date", save: SaveGoalRequest{TargetScore: 700, ExamDate: ptr("2025-13-01")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(NewMockStore())
			goal, err := svc.SaveGoal(ctx, "alice", &tt.save)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, serviceerrors.ErrCodeInvalidArgument, serviceerrors.GetCodeFromError(err, ""))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", goal.OwnerID)
			assert.Equal(t, tt.save.TargetScore, goal.TargetScore)
			assert.Equal(t, tt.wantDate, goal.ExamDate)

			got, err := svc.GetGoal(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, goal, got)
		})
	}
}

func TestGetGoal(t *testing.T) {
	ctx := context.Background()
	mock := NewMockStore()
	svc := NewService(mock)

	goal, err := svc.GetGoal(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, goal)

	mock.err = errors.New("unavailable")
	_, err = svc.GetGoal(ctx, "alice")
	assert.Equal(t, serviceerrors.ErrCodeInternal, serviceerrors.GetCodeFromError(err, ""))
	_, err = svc.SaveGoal(ctx, "alice", &SaveGoalRequest{TargetScore: 500})
	assert.Equal(t, serviceerrors.ErrCodeInternal, serviceerrors.GetCodeFromError(err, ""))
}
