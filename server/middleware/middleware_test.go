package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/toeicplanner/server/internal/observability"
)

func newTestEcho(limiter *RateLimiter, metrics *observability.Metrics) *echo.Echo {
	e := echo.New()
	e.Use(Owner("default"), AccessLog(metrics))
	if limiter != nil {
		e.Use(limiter.Middleware())
	}
	e.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"owner": OwnerFromEcho(c)})
	})
	return e
}

func TestOwner(t *testing.T) {
	e := newTestEcho(nil, nil)

	tests := []struct {
		header string
		want   string
	}{
		{"", "default"},
		{"alice", "alice"},
		{"  bob  ", "bob"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(OwnerHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"owner":"`+tt.want+`"}`, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		})
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	metrics := observability.NewMetrics(10)
	e := newTestEcho(NewRateLimiter(0.001, 2), metrics)

	do := func(owner string) int {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(OwnerHeader, owner)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("alice"))
	assert.Equal(t, http.StatusOK, do("alice"))
	assert.Equal(t, http.StatusTooManyRequests, do("alice"))
	assert.Equal(t, http.StatusOK, do("bob"))

	snapshot := metrics.Snapshot()
	assert.EqualValues(t, 4, snapshot.RequestTotal)
	assert.EqualValues(t, 0, snapshot.RequestFailed)
}

func TestRateLimiterDefaults(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	for i := 0; i < 20; i++ {
		assert.True(t, limiter.Allow("k"))
	}
	assert.False(t, limiter.Allow("k"))

	limiter.Prune()
	assert.Equal(t, 1, limiter.Size())
}

func TestRateLimiterRunPrunesIdleKeys(t *testing.T) {
	limiter := NewRateLimiter(1000, 1)
	for _, owner := range []string{"alice", "bob", "carol"} {
		assert.True(t, limiter.Allow(owner))
	}
	require.Equal(t, 3, limiter.Size())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return limiter.Size() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
