package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/toeicplanner/server/internal/observability"
)

// OwnerHeader carries the owner id of a request.
const OwnerHeader = "X-User-ID"

const ownerKey = "owner_id"

// Owner resolves the owner of each request from OwnerHeader, falling back to
// defaultOwner, and attaches a RequestContext for logging.
func Owner(defaultOwner string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			owner := strings.TrimSpace(c.Request().Header.Get(OwnerHeader))
			if owner == "" {
				owner = defaultOwner
			}
			c.Set(ownerKey, owner)

			reqCtx := observability.NewRequestContext(nil, c.Path(), owner)
			c.Response().Header().Set(echo.HeaderXRequestID, reqCtx.RequestID)
			ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// OwnerFromEcho returns the owner resolved by Owner.
func OwnerFromEcho(c echo.Context) string {
	owner, _ := c.Get(ownerKey).(string)
	return owner
}

// AccessLog logs every request with its status and duration and records it
// in metrics. It must run after Owner.
func AccessLog(metrics *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status
			duration := time.Since(start)
			if metrics != nil {
				metrics.RecordRequest(c.Path(), duration, status >= 500)
			}

			if reqCtx, ok := observability.FromContext(c.Request().Context()); ok {
				reqCtx.Info("request handled",
					slog.Int(observability.LogFieldStatus, status),
					slog.Int64(observability.LogFieldDuration, duration.Milliseconds()),
				)
			}
			return nil
		}
	}
}
