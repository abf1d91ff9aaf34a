package store

import (
	"sync"
	"time"

	"github.com/hrygo/toeicplanner/internal/profile"
	"github.com/hrygo/toeicplanner/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	goalCache *cache.Cache // cache for goals keyed by owner

	subscribersMu sync.RWMutex
	subscribers   map[int]func(ownerID string)
	nextSubID     int
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	// Default cache settings
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:      driver,
		profile:     profile,
		cacheConfig: cacheConfig,
		goalCache:   cache.New(cacheConfig),
		subscribers: make(map[int]func(string)),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.goalCache.Close()

	return s.driver.Close()
}

// Subscribe registers fn to be called with the owner id after a task is
// created, updated or deleted, or a goal is saved, through this store.
// Writes made by other processes are not observed. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(ownerID string)) func() {
	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subscribersMu.Lock()
		defer s.subscribersMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) notifyChange(ownerID string) {
	s.subscribersMu.RLock()
	callbacks := make([]func(string), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.subscribersMu.RUnlock()

	for _, fn := range callbacks {
		fn(ownerID)
	}
}
