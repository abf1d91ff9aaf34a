// Package digest provides a background runner that summarizes, once a day,
// what every owner has due and overdue.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hrygo/toeicplanner/server/stats"
	"github.com/hrygo/toeicplanner/server/timezone"
	"github.com/hrygo/toeicplanner/store"
)

// DefaultSchedule runs the digest every day at 07:00.
const DefaultSchedule = "0 7 * * *"

// Store is the subset of store.Store the runner reads from.
type Store interface {
	ListTaskOwners(ctx context.Context) ([]string, error)
	ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error)
	GetGoal(ctx context.Context, find *store.FindGoal) (*store.Goal, error)
}

// Digest is the daily summary of one owner.
type Digest struct {
	OwnerID  string
	Date     string
	DueToday []*store.Task
	Overdue  []*store.Task
	Overview *stats.Overview
}

// String renders the digest as text.
func (d *Digest) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s の学習ダイジェスト\n", d.Date)
	fmt.Fprintf(&b, "今日のタスク: %d件 / 期限切れ: %d件\n", len(d.DueToday), len(d.Overdue))
	for _, task := range d.DueToday {
		fmt.Fprintf(&b, "  - [%s] %s\n", task.Category.Label(), task.Title)
	}
	for _, task := range d.Overdue {
		fmt.Fprintf(&b, "  ! [%s] %s (%s)\n", task.Category.Label(), task.Title, task.DueDate)
	}
	b.WriteString(d.Overview.GetSummary())
	return b.String()
}

// Runner builds a digest for every owner on a cron schedule.
type Runner struct {
	store    Store
	schedule string
	location *time.Location
	now      func() time.Time
}

// NewRunner creates a digest runner. An empty schedule disables Run.
func NewRunner(st Store, schedule string, location *time.Location) *Runner {
	if location == nil {
		location = time.Local
	}
	return &Runner{
		store:    st,
		schedule: schedule,
		location: location,
		now:      time.Now,
	}
}

// Run schedules the digest and blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	if r.schedule == "" {
		slog.Info("digest runner disabled")
		return
	}

	scheduler := cron.New(cron.WithLocation(r.location))
	if _, err := scheduler.AddFunc(r.schedule, func() {
		if _, err := r.RunOnce(ctx); err != nil {
			slog.Error("failed to build digests", slog.String("error", err.Error()))
		}
	}); err != nil {
		slog.Error("invalid digest schedule", slog.String("schedule", r.schedule), slog.String("error", err.Error()))
		return
	}

	scheduler.Start()
	slog.Info("digest runner started", slog.String("schedule", r.schedule), slog.String("timezone", r.location.String()))

	<-ctx.Done()
	<-scheduler.Stop().Done()
	slog.Info("digest runner stopped")
}

// RunOnce builds and logs the digest of every owner with tasks.
// Owners that fail are logged and skipped.
func (r *Runner) RunOnce(ctx context.Context) ([]*Digest, error) {
	owners, err := r.store.ListTaskOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task owners: %w", err)
	}

	digests := make([]*Digest, 0, len(owners))
	for _, ownerID := range owners {
		if ctx.Err() != nil {
			return digests, ctx.Err()
		}
		digest, err := r.build(ctx, ownerID)
		if err != nil {
			slog.Warn("failed to build digest", slog.String("owner", ownerID), slog.String("error", err.Error()))
			continue
		}
		slog.Info("daily digest",
			slog.String("owner", ownerID),
			slog.Int("dueToday", len(digest.DueToday)),
			slog.Int("overdue", len(digest.Overdue)),
			slog.Int("completionRate", digest.Overview.CompletionRate),
			slog.Int("daysLeft", digest.Overview.DaysLeft))
		digests = append(digests, digest)
	}
	return digests, nil
}

func (r *Runner) build(ctx context.Context, ownerID string) (*Digest, error) {
	tasks, err := r.store.ListTasks(ctx, &store.FindTask{OwnerID: &ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	goal, err := r.store.GetGoal(ctx, &store.FindGoal{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	now := r.now().In(r.location)
	today := timezone.DateOf(now, r.location)
	digest := &Digest{
		OwnerID:  ownerID,
		Date:     today,
		DueToday: []*store.Task{},
		Overdue:  []*store.Task{},
		Overview: stats.NewOverview(tasks, goal, now),
	}
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		switch {
		case task.DueDate == today:
			digest.DueToday = append(digest.DueToday, task)
		case task.DueDate < today:
			digest.Overdue = append(digest.Overdue, task)
		}
	}
	return digest, nil
}
