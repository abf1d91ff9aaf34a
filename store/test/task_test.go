package test

import (
	"context"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/toeicplanner/store"
)

func createTestingTask(ctx context.Context, t *testing.T, ts *store.Store, ownerID, title, dueDate string) *store.Task {
	t.Helper()
	task, err := ts.CreateTask(ctx, &store.Task{
		ID:       shortuuid.New(),
		OwnerID:  ownerID,
		Title:    title,
		Category: store.CategoryReading,
		DueDate:  dueDate,
	})
	require.NoError(t, err)
	return task
}

func TestTaskStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	owner := "owner-" + shortuuid.New()

	task := createTestingTask(ctx, t, ts, owner, "Part 5 drill", "2025-08-03")
	require.NotZero(t, task.CreatedTs)
	require.False(t, task.Completed)

	got, err := ts.GetTask(ctx, &store.FindTask{ID: &task.ID, OwnerID: &owner})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Part 5 drill", got.Title)
	require.Equal(t, store.CategoryReading, got.Category)
	require.Equal(t, "2025-08-03", got.DueDate)
	require.Nil(t, got.CompletedTs)
	require.Nil(t, got.CompletionData)

	title := "Part 5 drill x2"
	category := store.CategoryGrammar
	err = ts.UpdateTask(ctx, &store.UpdateTask{ID: task.ID, OwnerID: owner, Title: &title, Category: &category})
	require.NoError(t, err)

	got, err = ts.GetTask(ctx, &store.FindTask{ID: &task.ID, OwnerID: &owner})
	require.NoError(t, err)
	require.Equal(t, title, got.Title)
	require.Equal(t, store.CategoryGrammar, got.Category)

	err = ts.DeleteTask(ctx, &store.DeleteTask{ID: task.ID, OwnerID: owner})
	require.NoError(t, err)

	got, err = ts.GetTask(ctx, &store.FindTask{ID: &task.ID, OwnerID: &owner})
	require.NoError(t, err)
	require.Nil(t, got)

	err = ts.DeleteTask(ctx, &store.DeleteTask{ID: task.ID, OwnerID: owner})
	require.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStoreComplete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	owner := "owner-" + shortuuid.New()

	first := createTestingTask(ctx, t, ts, owner, "first", "2025-08-01")
	second := createTestingTask(ctx, t, ts, owner, "second", "2025-08-02")
	createTestingTask(ctx, t, ts, owner, "third", "2025-08-03")

	completed := true
	for i, task := range []*store.Task{first, second} {
		completedTs := int64(1_700_000_000 + i*60)
		err := ts.UpdateTask(ctx, &store.UpdateTask{
			ID:          task.ID,
			OwnerID:     owner,
			Completed:   &completed,
			CompletedTs: &completedTs,
			CompletionData: &store.CompletionData{
				Time:       int32(30 + i),
				Difficulty: "hard",
				Focus:      "focused",
			},
		})
		require.NoError(t, err)
	}

	done, err := ts.ListTasks(ctx, &store.FindTask{OwnerID: &owner, Completed: &completed})
	require.NoError(t, err)
	require.Len(t, done, 2)
	// Most recently completed first.
	require.Equal(t, second.ID, done[0].ID)
	require.Equal(t, first.ID, done[1].ID)
	require.NotNil(t, done[0].CompletionData)
	require.Equal(t, int32(31), done[0].CompletionData.Time)
	require.Equal(t, "hard", done[0].CompletionData.Difficulty)
	require.Equal(t, "focused", done[0].CompletionData.Focus)

	pending := false
	open, err := ts.ListTasks(ctx, &store.FindTask{OwnerID: &owner, Completed: &pending})
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "third", open[0].Title)
}

func TestTaskStoreCompleteOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	owner := "owner-" + shortuuid.New()
	task := createTestingTask(ctx, t, ts, owner, "once", "2025-08-01")

	complete := func(minutes int32) error {
		completed := true
		completedTs := int64(1_700_000_000)
		return ts.UpdateTask(ctx, &store.UpdateTask{
			ID:                task.ID,
			OwnerID:           owner,
			Completed:         &completed,
			CompletedTs:       &completedTs,
			CompletionData:    &store.CompletionData{Time: minutes, Difficulty: "normal", Focus: "normal"},
			RequireIncomplete: true,
		})
	}

	require.NoError(t, complete(30))
	require.ErrorIs(t, complete(45), store.ErrTaskAlreadyCompleted)

	got, err := ts.GetTask(ctx, &store.FindTask{ID: &task.ID, OwnerID: &owner})
	require.NoError(t, err)
	require.Equal(t, int32(30), got.CompletionData.Time)

	missing := shortuuid.New()
	completed := true
	err = ts.UpdateTask(ctx, &store.UpdateTask{ID: missing, OwnerID: owner, Completed: &completed, RequireIncomplete: true})
	require.ErrorIs(t, err, store.ErrTaskNotFound)

	// Another owner's task id does not match.
	err = ts.UpdateTask(ctx, &store.UpdateTask{ID: task.ID, OwnerID: "someone-else", Completed: &completed, RequireIncomplete: true})
	require.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStoreListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	owner := "owner-" + shortuuid.New()
	other := "other-" + shortuuid.New()

	createTestingTask(ctx, t, ts, owner, "c", "2025-08-10")
	createTestingTask(ctx, t, ts, owner, "a", "2025-08-01")
	createTestingTask(ctx, t, ts, owner, "b", "2025-08-05")
	createTestingTask(ctx, t, ts, other, "x", "2025-08-05")

	all, err := ts.ListTasks(ctx, &store.FindTask{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{all[0].Title, all[1].Title, all[2].Title})

	from, to := "2025-08-02", "2025-08-10"
	ranged, err := ts.ListTasks(ctx, &store.FindTask{OwnerID: &owner, DueDateFrom: &from, DueDateTo: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	require.Equal(t, "b", ranged[0].Title)
	require.Equal(t, "c", ranged[1].Title)

	limit, offset := 1, 1
	page, err := ts.ListTasks(ctx, &store.FindTask{OwnerID: &owner, Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "b", page[0].Title)

	skip := 2
	tail, err := ts.ListTasks(ctx, &store.FindTask{OwnerID: &owner, Offset: &skip})
	require.NoError(t, err)
	require.Len(t, tail, 1)
	require.Equal(t, "c", tail[0].Title)

	category := store.CategoryListening
	none, err := ts.ListTasks(ctx, &store.FindTask{OwnerID: &owner, Category: &category})
	require.NoError(t, err)
	require.Empty(t, none)

	owners, err := ts.ListTaskOwners(ctx)
	require.NoError(t, err)
	require.Contains(t, owners, owner)
	require.Contains(t, owners, other)
}

func TestTaskStoreSubscribe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	owner := "owner-" + shortuuid.New()

	notified := []string{}
	unsubscribe := ts.Subscribe(func(ownerID string) {
		notified = append(notified, ownerID)
	})

	task := createTestingTask(ctx, t, ts, owner, "listen", "2025-08-01")
	require.Equal(t, []string{owner}, notified)

	// Every owner's changes are delivered with their owner id.
	createTestingTask(ctx, t, ts, "someone-else", "other", "2025-08-01")
	require.Equal(t, []string{owner, "someone-else"}, notified)

	unsubscribe()
	require.NoError(t, ts.DeleteTask(ctx, &store.DeleteTask{ID: task.ID, OwnerID: owner}))
	require.Len(t, notified, 2)
}
