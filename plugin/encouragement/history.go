package encouragement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

const (
	// HistoryKey is the key the history is stored under.
	HistoryKey = "encouragement_message_history"
	// MaxHistory is the number of recent message ids kept.
	MaxHistory = 10
)

// HistoryManager keeps the recently shown message ids as a JSON array in a
// KeyValueStore, newest first.
//
// Storage problems never reach the caller: a missing or failing store, an
// unreadable value and even a panicking store all read as an empty history
// and writes are dropped.
type HistoryManager struct {
	kv       KeyValueStore
	key      string
	capacity int
}

// NewHistoryManager creates a history on kv. kv may be nil.
func NewHistoryManager(kv KeyValueStore) *HistoryManager {
	return &HistoryManager{
		kv:       kv,
		key:      HistoryKey,
		capacity: MaxHistory,
	}
}

// guard runs fn against the store, absorbing errors and panics.
func (h *HistoryManager) guard(ctx context.Context, op string, fn func(KeyValueStore) error) {
	if h == nil || h.kv == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.WarnContext(ctx, "encouragement history panicked",
				slog.String("op", op),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	if err := fn(h.kv); err != nil {
		slog.WarnContext(ctx, "encouragement history unavailable",
			slog.String("op", op),
			slog.String("error", err.Error()))
	}
}

// RecentIDs returns the recent message ids, newest first.
func (h *HistoryManager) RecentIDs(ctx context.Context) []string {
	ids := []string{}
	h.guard(ctx, "read", func(kv KeyValueStore) error {
		raw, ok, err := kv.GetItem(ctx, h.key)
		if err != nil || !ok {
			return err
		}
		var stored []string
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return fmt.Errorf("decode history: %w", err)
		}
		ids = append(ids, stored...)
		return nil
	})
	return ids
}

// Add moves id to the front of the history, dropping the oldest entries
// beyond capacity.
func (h *HistoryManager) Add(ctx context.Context, id string) {
	recent := h.RecentIDs(ctx)
	next := make([]string, 0, len(recent)+1)
	next = append(next, id)
	for _, existing := range recent {
		if existing != id {
			next = append(next, existing)
		}
	}
	if len(next) > h.capacity {
		next = next[:h.capacity]
	}

	h.guard(ctx, "write", func(kv KeyValueStore) error {
		raw, err := json.Marshal(next)
		if err != nil {
			return err
		}
		return kv.SetItem(ctx, h.key, string(raw))
	})
}

// Clear removes the history.
func (h *HistoryManager) Clear(ctx context.Context) {
	h.guard(ctx, "clear", func(kv KeyValueStore) error {
		return kv.RemoveItem(ctx, h.key)
	})
}

var _ History = (*HistoryManager)(nil)
