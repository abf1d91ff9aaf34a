package test

import (
	"context"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/toeicplanner/store"
)

func TestGoalStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	owner := "owner-" + shortuuid.New()

	goal, err := ts.GetGoal(ctx, &store.FindGoal{OwnerID: owner})
	require.NoError(t, err)
	require.Nil(t, goal)

	examDate := "2025-08-15"
	goal, err = ts.UpsertGoal(ctx, &store.Goal{OwnerID: owner, TargetScore: 800, ExamDate: &examDate})
	require.NoError(t, err)
	require.Equal(t, int32(800), goal.TargetScore)

	got, err := ts.GetGoal(ctx, &store.FindGoal{OwnerID: owner})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int32(800), got.TargetScore)
	require.True(t, got.HasExamDate())
	require.Equal(t, "2025-08-15", *got.ExamDate)

	// Mutating the returned goal does not leak into the cache.
	got.TargetScore = 1
	again, err := ts.GetGoal(ctx, &store.FindGoal{OwnerID: owner})
	require.NoError(t, err)
	require.Equal(t, int32(800), again.TargetScore)

	_, err = ts.UpsertGoal(ctx, &store.Goal{OwnerID: owner, TargetScore: 900})
	require.NoError(t, err)
	got, err = ts.GetGoal(ctx, &store.FindGoal{OwnerID: owner})
	require.NoError(t, err)
	require.Equal(t, int32(900), got.TargetScore)
	require.False(t, got.HasExamDate())
}
