package stats

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/toeicplanner/store"
	"github.com/hrygo/toeicplanner/store/cache"
)

const (
	// DefaultSnapshotTTL bounds how long a snapshot is served without
	// reloading, so writes from other processes show up eventually.
	DefaultSnapshotTTL = 30 * time.Second
	// DefaultMaxOwners bounds the number of cached snapshots.
	DefaultMaxOwners = 1000
)

// Store is the subset of store.Store the collector reads from.
type Store interface {
	ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error)
	GetGoal(ctx context.Context, find *store.FindGoal) (*store.Goal, error)
	Subscribe(fn func(ownerID string)) func()
}

// Snapshot is everything an owner's views are computed from.
type Snapshot struct {
	Tasks    []*store.Task
	Goal     *store.Goal
	Overview *Overview
}

type entry struct {
	tasks []*store.Task
	goal  *store.Goal
}

// Option configures a Collector.
type Option func(*options)

type options struct {
	ttl       time.Duration
	maxOwners int
}

// WithTTL sets how long a snapshot is cached.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithMaxOwners bounds the number of cached snapshots.
func WithMaxOwners(n int) Option {
	return func(o *options) { o.maxOwners = n }
}

// Collector loads and caches the tasks and goal of each owner. Entries expire
// after a TTL and are dropped whenever the store reports a change for the owner.
type Collector struct {
	store Store
	now   func() time.Time

	entries     *cache.Cache
	unsubscribe func()

	// mu orders invalidations against loads; version counts invalidations.
	mu      sync.Mutex
	version uint64
}

// NewCollector creates a new statistics collector subscribed to st.
func NewCollector(st Store, now func() time.Time, opts ...Option) *Collector {
	if now == nil {
		now = time.Now
	}
	o := options{ttl: DefaultSnapshotTTL, maxOwners: DefaultMaxOwners}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Collector{
		store: st,
		now:   now,
		entries: cache.New(cache.Config{
			DefaultTTL:      o.ttl,
			CleanupInterval: o.ttl,
			MaxItems:        o.maxOwners,
		}),
	}
	c.unsubscribe = st.Subscribe(c.invalidate)
	return c
}

// Collect returns the snapshot of ownerID, with the overview computed at the
// collector's current time. The returned tasks must not be modified.
func (c *Collector) Collect(ctx context.Context, ownerID string) (*Snapshot, error) {
	cached, ok := c.cached(ctx, ownerID)
	if !ok {
		c.mu.Lock()
		version := c.version
		c.mu.Unlock()

		var err error
		cached, err = c.load(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.version == version {
			c.entries.Set(ctx, ownerID, cached)
		}
		c.mu.Unlock()
	}

	return &Snapshot{
		Tasks:    cached.tasks,
		Goal:     cached.goal,
		Overview: NewOverview(cached.tasks, cached.goal, c.now()),
	}, nil
}

func (c *Collector) cached(ctx context.Context, ownerID string) (*entry, bool) {
	value, ok := c.entries.Get(ctx, ownerID)
	if !ok {
		return nil, false
	}
	cached, ok := value.(*entry)
	return cached, ok
}

// load fetches tasks and goal concurrently.
func (c *Collector) load(ctx context.Context, ownerID string) (*entry, error) {
	var (
		tasks []*store.Task
		goal  *store.Goal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = c.store.ListTasks(gctx, &store.FindTask{OwnerID: &ownerID})
		return err
	})
	g.Go(func() error {
		var err error
		goal, err = c.store.GetGoal(gctx, &store.FindGoal{OwnerID: ownerID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &entry{tasks: tasks, goal: goal}, nil
}

func (c *Collector) invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Delete(context.Background(), ownerID)
	c.version++
}

// Stop unsubscribes from the store and drops the cache.
func (c *Collector) Stop() {
	c.unsubscribe()
	c.entries.Clear(context.Background())
	c.entries.Close()
}
