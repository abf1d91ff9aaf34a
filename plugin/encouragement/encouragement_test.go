package encouragement

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(messages []Message) []string {
	result := make([]string, 0, len(messages))
	for _, m := range messages {
		result = append(result, m.ID)
	}
	return result
}

func TestCorpus(t *testing.T) {
	seen := map[string]bool{}
	generic := 0
	for _, message := range Corpus {
		assert.False(t, seen[message.ID], "duplicate id %s", message.ID)
		seen[message.ID] = true
		assert.NotEmpty(t, message.Text, message.ID)
		assert.NotEmpty(t, message.Emoji, message.ID)
		if len(message.Context) == 0 {
			generic++
		}
	}
	assert.Len(t, Corpus, 20)
	assert.Positive(t, generic)

	categories := map[Category]int{}
	for _, message := range Corpus {
		categories[message.Category]++
	}
	for _, category := range []Category{
		CategoryGreeting, CategoryProgress, CategoryMotivation, CategoryCompletion,
		CategoryGoal, CategoryDaily, CategoryChallenge,
	} {
		assert.Positive(t, categories[category], category)
	}
	assert.Len(t, categories, 7)
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want Context
	}{
		{0, ContextEvening},
		{5, ContextEvening},
		{6, ContextMorning},
		{11, ContextMorning},
		{12, ContextAfternoon},
		{17, ContextAfternoon},
		{18, ContextEvening},
		{23, ContextEvening},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour %d", tt.hour), func(t *testing.T) {
			assert.Equal(t, tt.want, TimeOfDay(tt.hour))
		})
	}

	at := time.Date(2025, 8, 13, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, ContextMorning, TimeOfDayAt(at))
}

func TestClassifyContext(t *testing.T) {
	tests := []struct {
		name      string
		rate      int
		total     int
		completed int
		hasGoal   bool
		timeOfDay Context
		want      []Context
	}{
		{
			name: "middle progress",
			rate: 50, total: 4, completed: 2,
			want: []Context{},
		},
		{
			name: "time of day first",
			rate: 50, total: 4, completed: 2, timeOfDay: ContextAfternoon,
			want: []Context{ContextAfternoon},
		},
		{
			name: "first task with low progress",
			rate: 10, total: 10, completed: 1,
			want: []Context{ContextLowProgress, ContextFirstTask},
		},
		{
			name: "boundaries",
			rate: 80, total: 5, completed: 4,
			want: []Context{ContextHighProgress, ContextStreak},
		},
		{
			name: "low boundary",
			rate: 30, total: 10, completed: 3,
			want: []Context{ContextLowProgress, ContextStreak},
		},
		{
			name: "near goal needs a goal",
			rate: 95, total: 20, completed: 19,
			want: []Context{ContextHighProgress, ContextStreak},
		},
		{
			name: "near goal",
			rate: 90, total: 10, completed: 9, hasGoal: true, timeOfDay: ContextMorning,
			want: []Context{ContextMorning, ContextHighProgress, ContextStreak, ContextNearGoal},
		},
		{
			name: "negative rate",
			rate: -10,
			want: []Context{ContextLowProgress},
		},
		{
			name: "rate above 100",
			rate: 150, total: 2, completed: 3, hasGoal: true,
			want: []Context{ContextHighProgress, ContextStreak, ContextNearGoal},
		},
		{
			name: "no tasks",
			want: []Context{ContextLowProgress},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyContext(tt.rate, tt.total, tt.completed, tt.hasGoal, tt.timeOfDay)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectMessage(t *testing.T) {
	t.Run("context match or generic", func(t *testing.T) {
		random := &MockRandom{}
		message := SelectMessage(Corpus, []Context{ContextLowProgress}, nil, random)
		assert.Equal(t, "motivation_001", message.ID)
		assert.Equal(t, []int{13}, random.Calls)
	})

	t.Run("no contexts uses whole corpus", func(t *testing.T) {
		random := &MockRandom{Index: 100}
		message := SelectMessage(Corpus, nil, nil, random)
		assert.Equal(t, "challenge_003", message.ID)
		assert.Equal(t, []int{20}, random.Calls)
	})

	t.Run("excluded ids are skipped", func(t *testing.T) {
		random := &MockRandom{}
		message := SelectMessage(Corpus, []Context{ContextLowProgress}, []string{"motivation_001", "motivation_002"}, random)
		assert.Equal(t, "motivation_003", message.ID)
		assert.Equal(t, []int{11}, random.Calls)
	})

	t.Run("generic fallback", func(t *testing.T) {
		corpus := []Message{
			{ID: "a", Text: "a", Emoji: "a", Context: []Context{ContextMorning}},
			{ID: "b", Text: "b", Emoji: "b"},
		}
		message := SelectMessage(corpus, []Context{ContextEvening}, nil, &MockRandom{})
		assert.Equal(t, "b", message.ID)
	})

	t.Run("context ignored when nothing else is left", func(t *testing.T) {
		exclude := []string{"greeting_001"}
		for _, message := range Corpus {
			if len(message.Context) == 0 {
				exclude = append(exclude, message.ID)
			}
		}
		random := &MockRandom{}
		message := SelectMessage(Corpus, []Context{ContextMorning}, exclude, random)
		assert.Equal(t, "greeting_002", message.ID)
		assert.Equal(t, []int{10}, random.Calls)
	})

	t.Run("exhausted exclusions return the first message", func(t *testing.T) {
		random := &MockRandom{}
		message := SelectMessage(Corpus, []Context{ContextStreak}, ids(Corpus), random)
		assert.Equal(t, Corpus[0], message)
		assert.Empty(t, random.Calls)
	})

	t.Run("default random picks from the pool", func(t *testing.T) {
		pool := map[string]bool{}
		for _, message := range Corpus {
			if len(message.Context) == 0 || intersects(message.Context, map[Context]bool{ContextStreak: true}) {
				pool[message.ID] = true
			}
		}
		for i := 0; i < 50; i++ {
			message := SelectMessage(Corpus, []Context{ContextStreak}, nil, nil)
			assert.True(t, pool[message.ID], message.ID)
		}
	})
}

func TestHistoryManager(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the ten most recent", func(t *testing.T) {
		history := NewHistoryManager(NewMockKeyValueStore())
		for i := 1; i <= 15; i++ {
			history.Add(ctx, fmt.Sprintf("id-%d", i))
		}
		recent := history.RecentIDs(ctx)
		require.Len(t, recent, MaxHistory)
		assert.Equal(t, "id-15", recent[0])
		assert.Equal(t, "id-6", recent[9])
	})

	t.Run("re-adding moves to front", func(t *testing.T) {
		history := NewHistoryManager(NewMockKeyValueStore())
		for _, id := range []string{"a", "b", "c"} {
			history.Add(ctx, id)
		}
		history.Add(ctx, "a")
		assert.Equal(t, []string{"a", "c", "b"}, history.RecentIDs(ctx))
	})

	t.Run("persists as json", func(t *testing.T) {
		kv := NewMockKeyValueStore()
		history := NewHistoryManager(kv)
		history.Add(ctx, "x")
		history.Add(ctx, "y")
		raw, ok, err := kv.GetItem(ctx, HistoryKey)
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `["y","x"]`, raw)
	})

	t.Run("corrupted value reads as empty", func(t *testing.T) {
		kv := NewMockKeyValueStore()
		history := NewHistoryManager(kv)
		for _, raw := range []string{"{not json", `{"a":1}`, "null", `[1,2]`} {
			require.NoError(t, kv.SetItem(ctx, HistoryKey, raw))
			assert.Empty(t, history.RecentIDs(ctx), raw)
		}
		history.Add(ctx, "fresh")
		assert.Equal(t, []string{"fresh"}, history.RecentIDs(ctx))
	})

	t.Run("clear", func(t *testing.T) {
		kv := NewMockKeyValueStore()
		history := NewHistoryManager(kv)
		history.Add(ctx, "a")
		history.Clear(ctx)
		_, ok, _ := kv.GetItem(ctx, HistoryKey)
		assert.False(t, ok)
		assert.Empty(t, history.RecentIDs(ctx))
	})

	t.Run("missing or failing store", func(t *testing.T) {
		for name, kv := range map[string]KeyValueStore{
			"nil":       nil,
			"failing":   &FailingKeyValueStore{},
			"panicking": &FailingKeyValueStore{Panic: true},
		} {
			t.Run(name, func(t *testing.T) {
				history := NewHistoryManager(kv)
				assert.NotPanics(t, func() {
					history.Add(ctx, "a")
					history.Clear(ctx)
				})
				assert.Empty(t, history.RecentIDs(ctx))
			})
		}
	})
}

func TestEngineGetMessage(t *testing.T) {
	ctx := context.Background()
	morning := time.Date(2025, 8, 13, 9, 0, 0, 0, time.Local)

	t.Run("records and avoids repeats", func(t *testing.T) {
		kv := NewMockKeyValueStore()
		history := NewHistoryManager(kv)
		engine := NewService(history, WithClock(FixedClock(morning)), WithRandom(&MockRandom{}))

		state := State{CompletionRate: 100, TotalTasks: 3, CompletedTasks: 3, HasGoal: true}
		first := engine.GetMessage(ctx, state)
		assert.Equal(t, "greeting_001", first.ID)
		second := engine.GetMessage(ctx, state)
		assert.Equal(t, "progress_001", second.ID)
		assert.Equal(t, []string{"progress_001", "greeting_001"}, history.RecentIDs(ctx))

		engine.ClearHistory(ctx)
		assert.Empty(t, history.RecentIDs(ctx))
		assert.Equal(t, "greeting_001", engine.GetMessage(ctx, state).ID)
	})

	t.Run("never repeats within the history window", func(t *testing.T) {
		history := NewHistoryManager(NewMockKeyValueStore())
		engine := NewService(history, WithClock(FixedClock(morning)))
		var shown []string
		for i := 0; i < MaxHistory+1; i++ {
			shown = append(shown, engine.GetMessage(ctx, State{CompletionRate: 50, TotalTasks: 2, CompletedTasks: 1}).ID)
		}
		window := map[string]bool{}
		for _, id := range shown[:MaxHistory] {
			assert.False(t, window[id], "repeated %s", id)
			window[id] = true
		}
	})

	t.Run("degraded inputs still return a message", func(t *testing.T) {
		corpusIDs := ids(Corpus)
		states := []State{
			{},
			{CompletionRate: -10, TotalTasks: 1},
			{CompletionRate: 150, TotalTasks: 2, CompletedTasks: 3, HasGoal: true},
		}
		histories := map[string]History{
			"nil":       nil,
			"absent":    NewHistoryManager(nil),
			"failing":   NewHistoryManager(&FailingKeyValueStore{}),
			"panicking": NewHistoryManager(&FailingKeyValueStore{Panic: true}),
		}
		for name, history := range histories {
			engine := NewService(history)
			for _, state := range states {
				var message Message
				assert.NotPanics(t, func() {
					message = engine.GetMessage(ctx, state)
				}, name)
				assert.Contains(t, corpusIDs, message.ID, name)
			}
		}
	})

	t.Run("custom corpus", func(t *testing.T) {
		corpus := []Message{{ID: "only", Text: "only", Emoji: "!"}}
		engine := NewService(nil, WithCorpus(corpus))
		assert.Equal(t, "only", engine.GetMessage(ctx, State{}).ID)
		assert.Equal(t, "only", engine.GetMessage(ctx, State{}).ID)

		fallback := NewService(nil, WithCorpus(nil), WithClock(FixedClock(morning)), WithRandom(&MockRandom{}))
		assert.Equal(t, Corpus[0].ID, fallback.GetMessage(ctx, State{}).ID)
	})
}
