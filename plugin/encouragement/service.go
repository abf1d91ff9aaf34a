package encouragement

import (
	"context"
	"log/slog"
	"time"
)

// Engine is the default Service: it classifies the study state, excludes the
// recent history and records the chosen message.
type Engine struct {
	corpus  []Message
	history History
	random  RandomSource
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the source used to pick from the candidate pool.
func WithRandom(random RandomSource) Option {
	return func(e *Engine) {
		e.random = random
	}
}

// WithClock sets the clock the time of day is read from.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithCorpus replaces the built-in corpus. An empty corpus is ignored.
func WithCorpus(corpus []Message) Option {
	return func(e *Engine) {
		if len(corpus) > 0 {
			e.corpus = corpus
		}
	}
}

// NewService creates an Engine keeping its history in history.
// A nil history behaves as an empty one.
func NewService(history History, opts ...Option) *Engine {
	engine := &Engine{
		corpus:  Corpus,
		history: history,
		random:  defaultRandom{},
		now:     time.Now,
	}
	if engine.history == nil {
		engine.history = NewHistoryManager(nil)
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// GetMessage implements Service.
func (e *Engine) GetMessage(ctx context.Context, state State) Message {
	contexts := ClassifyContext(
		state.CompletionRate,
		state.TotalTasks,
		state.CompletedTasks,
		state.HasGoal,
		TimeOfDayAt(e.now()),
	)
	recent := e.history.RecentIDs(ctx)
	message := SelectMessage(e.corpus, contexts, recent, e.random)
	e.history.Add(ctx, message.ID)

	slog.DebugContext(ctx, "encouragement selected",
		slog.String("id", message.ID),
		slog.Int("contexts", len(contexts)),
		slog.Int("recent", len(recent)))
	return message
}

// ClearHistory implements Service.
func (e *Engine) ClearHistory(ctx context.Context) {
	e.history.Clear(ctx)
}

var _ Service = (*Engine)(nil)
