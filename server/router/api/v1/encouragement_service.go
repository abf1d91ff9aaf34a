package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/toeicplanner/plugin/encouragement"
	"github.com/hrygo/toeicplanner/server/middleware"
)

// GetEncouragement returns a message for the owner's current statistics.
// GET /api/v1/encouragement
func (s *APIV1Service) GetEncouragement(c echo.Context) error {
	message, err := s.encouragementFor(c, middleware.OwnerFromEcho(c))
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(http.StatusOK, message)
}

// ClearEncouragementHistory forgets the recently shown messages.
// DELETE /api/v1/encouragement/history
func (s *APIV1Service) ClearEncouragementHistory(c echo.Context) error {
	history := encouragement.NewHistoryManager(s.Store.KeyValueFor(middleware.OwnerFromEcho(c)))
	history.Clear(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
