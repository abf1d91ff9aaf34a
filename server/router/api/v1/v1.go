package v1

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hrygo/toeicplanner/internal/profile"
	"github.com/hrygo/toeicplanner/plugin/encouragement"
	"github.com/hrygo/toeicplanner/plugin/markdown"
	"github.com/hrygo/toeicplanner/server/internal/observability"
	"github.com/hrygo/toeicplanner/server/middleware"
	"github.com/hrygo/toeicplanner/server/service/goal"
	"github.com/hrygo/toeicplanner/server/service/task"
	"github.com/hrygo/toeicplanner/server/stats"
	"github.com/hrygo/toeicplanner/store"
)

// APIV1Service serves the JSON API under /api/v1.
type APIV1Service struct {
	Profile         *profile.Profile
	Store           *store.Store
	TaskService     task.Service
	GoalService     goal.Service
	StatsCollector  *stats.Collector
	MarkdownService markdown.Service
	Metrics         *observability.Metrics

	rateLimiter *middleware.RateLimiter
	validate    *validator.Validate
	// now is the wall clock; handlers convert it to the profile's location.
	now func() time.Time
	// random overrides the encouragement pick in tests.
	random encouragement.RandomSource
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store) *APIV1Service {
	service := &APIV1Service{
		Profile:     profile,
		Store:       store,
		TaskService: task.NewService(store),
		GoalService: goal.NewService(store),
		MarkdownService: markdown.NewService(
			markdown.WithGFM(),
			markdown.WithHardWraps(),
		),
		Metrics:     observability.GlobalMetrics(),
		rateLimiter: middleware.NewRateLimiter(profile.RateLimit, profile.RateBurst),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		now:         time.Now,
	}
	service.StatsCollector = stats.NewCollector(store, service.localNow)
	return service
}

// localNow returns the current time in the profile's timezone.
func (s *APIV1Service) localNow() time.Time {
	return s.now().In(s.Profile.Location())
}

// RegisterRoutes mounts the API on echoServer.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	api := echoServer.Group("/api/v1",
		middleware.Owner(s.Profile.DefaultUser),
		middleware.AccessLog(s.Metrics),
		s.rateLimiter.Middleware(),
	)

	api.GET("/tasks", s.ListTasks)
	api.POST("/tasks", s.CreateTask)
	api.POST("/tasks/range", s.CreateTaskRange)
	api.GET("/tasks/:id", s.GetTask)
	api.PATCH("/tasks/:id", s.UpdateTask)
	api.DELETE("/tasks/:id", s.DeleteTask)
	api.POST("/tasks/:id/complete", s.CompleteTask)

	api.GET("/goal", s.GetGoal)
	api.PUT("/goal", s.SaveGoal)

	api.GET("/stats", s.GetStats)

	api.GET("/calendar/:year/:month", s.GetCalendarMonth)
	api.GET("/calendar/days/:date", s.GetCalendarDay)
	api.POST("/calendar/days/:date/actions", s.PerformCalendarAction)

	api.GET("/encouragement", s.GetEncouragement)
	api.DELETE("/encouragement/history", s.ClearEncouragementHistory)

	api.GET("/feed/rss", s.GetRSSFeed)
	api.GET("/feed/atom", s.GetAtomFeed)
}

// rateLimiterPruneInterval is how often idle per-owner limiters are dropped.
const rateLimiterPruneInterval = time.Minute

// RunRateLimiterPruner drops idle per-owner limiters until ctx is done.
func (s *APIV1Service) RunRateLimiterPruner(ctx context.Context) {
	s.rateLimiter.Run(ctx, rateLimiterPruneInterval)
}

// Close releases the background resources of the service.
func (s *APIV1Service) Close() {
	s.StatsCollector.Stop()
}
