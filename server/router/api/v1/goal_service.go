package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/toeicplanner/server/middleware"
	"github.com/hrygo/toeicplanner/server/service/goal"
)

// GetGoal returns the owner's goal, null when none was saved.
// GET /api/v1/goal
func (s *APIV1Service) GetGoal(c echo.Context) error {
	found, err := s.GoalService.GetGoal(c.Request().Context(), middleware.OwnerFromEcho(c))
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(http.StatusOK, GoalResponse{Goal: s.convertGoalFromStore(found)})
}

// SaveGoal creates or replaces the owner's goal.
// PUT /api/v1/goal
func (s *APIV1Service) SaveGoal(c echo.Context) error {
	req := &SaveGoalRequest{}
	if err := s.bind(c, req); err != nil {
		return s.handleError(c, err)
	}
	saved, err := s.GoalService.SaveGoal(c.Request().Context(), middleware.OwnerFromEcho(c), &goal.SaveGoalRequest{
		TargetScore: req.TargetScore,
		ExamDate:    req.ExamDate,
	})
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(http.StatusOK, GoalResponse{Goal: s.convertGoalFromStore(saved)})
}
