package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/server/middleware"
)

// GetStats returns the progress overview and its text summary.
// GET /api/v1/stats
func (s *APIV1Service) GetStats(c echo.Context) error {
	snapshot, err := s.StatsCollector.Collect(c.Request().Context(), middleware.OwnerFromEcho(c))
	if err != nil {
		return s.handleError(c, serviceerrors.Internal("failed to collect statistics", err))
	}
	return c.JSON(http.StatusOK, StatsResponse{
		Overview: snapshot.Overview,
		Summary:  snapshot.Overview.GetSummary(),
	})
}
