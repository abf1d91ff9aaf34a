package encouragement

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MockKeyValueStore is an in-memory KeyValueStore for tests.
type MockKeyValueStore struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMockKeyValueStore creates an empty MockKeyValueStore.
func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{items: make(map[string]string)}
}

func (m *MockKeyValueStore) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MockKeyValueStore) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockKeyValueStore) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// ErrMockUnavailable is returned by FailingKeyValueStore.
var ErrMockUnavailable = errors.New("storage unavailable")

// FailingKeyValueStore fails every call, or panics when Panic is set.
type FailingKeyValueStore struct {
	Panic bool
}

func (f *FailingKeyValueStore) fail() error {
	if f.Panic {
		panic("storage access denied")
	}
	return ErrMockUnavailable
}

func (f *FailingKeyValueStore) GetItem(context.Context, string) (string, bool, error) {
	return "", false, f.fail()
}

func (f *FailingKeyValueStore) SetItem(context.Context, string, string) error {
	return f.fail()
}

func (f *FailingKeyValueStore) RemoveItem(context.Context, string) error {
	return f.fail()
}

// MockRandom always picks index Index, clamped to the pool.
type MockRandom struct {
	Index int
	// Calls records the pool size of every call.
	Calls []int
}

func (m *MockRandom) IntN(n int) int {
	m.Calls = append(m.Calls, n)
	if m.Index >= n {
		return n - 1
	}
	if m.Index < 0 {
		return 0
	}
	return m.Index
}

// FixedClock returns a clock stuck at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var (
	_ KeyValueStore = (*MockKeyValueStore)(nil)
	_ KeyValueStore = (*FailingKeyValueStore)(nil)
	_ RandomSource  = (*MockRandom)(nil)
)
