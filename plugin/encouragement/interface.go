// Package encouragement picks a situational encouragement message after study
// activity, avoiding messages shown recently.
package encouragement

import (
	"context"
)

// Category groups messages by purpose.
type Category string

const (
	CategoryGreeting   Category = "greeting"
	CategoryProgress   Category = "progress"
	CategoryMotivation Category = "motivation"
	CategoryCompletion Category = "completion"
	CategoryGoal       Category = "goal"
	CategoryDaily      Category = "daily"
	CategoryChallenge  Category = "challenge"
)

// Context is a situational tag a message can be matched against.
type Context string

const (
	ContextMorning      Context = "morning"
	ContextAfternoon    Context = "afternoon"
	ContextEvening      Context = "evening"
	ContextHighProgress Context = "high_progress"
	ContextLowProgress  Context = "low_progress"
	ContextFirstTask    Context = "first_task"
	ContextStreak       Context = "streak"
	ContextNearGoal     Context = "near_goal"
)

// Message is an entry of the message corpus. An empty Context matches any situation.
type Message struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Emoji    string    `json:"emoji"`
	Category Category  `json:"category"`
	Context  []Context `json:"context"`
}

// State is the study state a message is chosen for.
type State struct {
	// CompletionRate is in percent; values outside [0, 100] are accepted as is.
	CompletionRate int  `json:"completionRate"`
	TotalTasks     int  `json:"totalTasks"`
	CompletedTasks int  `json:"completedTasks"`
	HasGoal        bool `json:"hasGoal"`
}

// Service selects encouragement messages.
// Consumers: task completion and the encouragement endpoint.
type Service interface {
	// GetMessage returns a message for state and records it as shown.
	// It always returns a message.
	GetMessage(ctx context.Context, state State) Message

	// ClearHistory forgets the recently shown messages.
	ClearHistory(ctx context.Context)
}

// KeyValueStore is the persistence the history is kept in.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// History tracks recently shown message ids, newest first.
// Implementations never fail: problems degrade to an empty history.
type History interface {
	RecentIDs(ctx context.Context) []string
	Add(ctx context.Context, id string)
	Clear(ctx context.Context)
}

// RandomSource picks the final message from the candidate pool.
type RandomSource interface {
	// IntN returns a uniform integer in [0, n). n is always positive.
	IntN(n int) int
}
