package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/toeicplanner/internal/profile"
	apiv1 "github.com/hrygo/toeicplanner/server/router/api/v1"
	"github.com/hrygo/toeicplanner/server/runner/digest"
	"github.com/hrygo/toeicplanner/store"
)

// Server is the HTTP server of the planner together with its background runners.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer        *echo.Echo
	apiV1Service      *apiv1.APIV1Service
	runnerCancelFuncs []context.CancelFunc
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Mode    string `json:"mode"`
	Driver  string `json:"driver"`
	// Requests is the number of API requests handled since start.
	Requests    int64   `json:"requests"`
	SuccessRate float64 `json:"successRate"`
}

func NewServer(_ context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Store:   store,
		Profile: profile,
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	s.echoServer = echoServer

	s.apiV1Service = apiv1.NewAPIV1Service(profile, store)
	echoServer.GET("/healthz", s.healthz)
	s.apiV1Service.RegisterRoutes(echoServer)

	return s, nil
}

func (s *Server) healthz(c echo.Context) error {
	snapshot := s.apiV1Service.Metrics.Snapshot()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Version:     s.Profile.Version,
		Mode:        s.Profile.Mode,
		Driver:      s.Profile.Driver,
		Requests:    snapshot.RequestTotal,
		SuccessRate: snapshot.SuccessRate(),
	})
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start listens on the profile address and starts the background runners.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}

	go func() {
		s.echoServer.Listener = listener
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", slog.String("error", err.Error()))
		}
	}()
	s.StartBackgroundRunners(ctx)

	return nil
}

// Shutdown stops the runners and the HTTP server, then closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")

	for _, cancelFunc := range s.runnerCancelFuncs {
		if cancelFunc != nil {
			cancelFunc()
		}
	}

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	s.apiV1Service.Close()
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}

	slog.Info("server stopped properly")
}

// StartBackgroundRunners starts the daily digest runner and the rate limiter pruner.
func (s *Server) StartBackgroundRunners(ctx context.Context) {
	digestCtx, digestCancel := context.WithCancel(ctx)
	s.runnerCancelFuncs = append(s.runnerCancelFuncs, digestCancel)

	runner := digest.NewRunner(s.Store, s.Profile.DigestSchedule, s.Profile.Location())
	go runner.Run(digestCtx)

	pruneCtx, pruneCancel := context.WithCancel(ctx)
	s.runnerCancelFuncs = append(s.runnerCancelFuncs, pruneCancel)
	go s.apiV1Service.RunRateLimiterPruner(pruneCtx)
}
