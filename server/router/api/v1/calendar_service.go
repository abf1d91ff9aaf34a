package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/toeicplanner/server/calendar"
	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/server/middleware"
	"github.com/hrygo/toeicplanner/server/stats"
)

// GetCalendarMonth returns the classified month grid.
// GET /api/v1/calendar/:year/:month
func (s *APIV1Service) GetCalendarMonth(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		return s.handleError(c, serviceerrors.InvalidArgument("invalid year %q", c.Param("year")))
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return s.handleError(c, serviceerrors.InvalidArgument("invalid month %q", c.Param("month")))
	}

	snapshot, err := s.StatsCollector.Collect(c.Request().Context(), middleware.OwnerFromEcho(c))
	if err != nil {
		return s.handleError(c, serviceerrors.Internal("failed to collect statistics", err))
	}
	view := calendar.BuildMonth(calendar.Month{Year: year, Month: time.Month(month)}, snapshot.Tasks, snapshot.Goal)
	return c.JSON(http.StatusOK, view)
}

// GetCalendarDay returns the state of a day and what selecting it opens.
// GET /api/v1/calendar/days/:date
func (s *APIV1Service) GetCalendarDay(c echo.Context) error {
	selection, day, err := s.selectDay(c.Request().Context(), middleware.OwnerFromEcho(c), c.Param("date"))
	if err != nil {
		return s.handleError(c, err)
	}

	response := CalendarDayResponse{
		Day:        day,
		Selectable: day.Selectable(),
		Kind:       selection.Kind,
		Exam:       selection.Exam,
		Tasks:      make([]CalendarTaskItem, 0, len(selection.Tasks)),
	}
	for _, item := range selection.Tasks {
		response.Tasks = append(response.Tasks, CalendarTaskItem{
			Task:    s.convertTaskFromStore(item.Task),
			Actions: item.Actions,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// PerformCalendarAction runs a task action offered by a day's selection.
// POST /api/v1/calendar/days/:date/actions
func (s *APIV1Service) PerformCalendarAction(c echo.Context) error {
	req := &CalendarActionRequest{}
	if err := s.bind(c, req); err != nil {
		return s.handleError(c, err)
	}
	ctx := c.Request().Context()
	selection, _, err := s.selectDay(ctx, middleware.OwnerFromEcho(c), c.Param("date"))
	if err != nil {
		return s.handleError(c, err)
	}

	response := &CalendarActionResponse{}
	err = selection.Perform(ctx, calendar.Action(req.Action), req.TaskID, calendar.Callbacks{
		Complete: func(_ context.Context, taskID string) error {
			if req.Completion == nil {
				return serviceerrors.InvalidArgument("completion is required")
			}
			if err := s.validate.Struct(req.Completion); err != nil {
				return serviceerrors.InvalidArgument("invalid completion: %v", err)
			}
			completed, err := s.completeTask(c, taskID, req.Completion)
			if err != nil {
				return err
			}
			response.Task = completed.Task
			response.Encouragement = completed.Encouragement
			return nil
		},
		Edit: func(_ context.Context, taskID string) error {
			if req.Update == nil {
				return serviceerrors.InvalidArgument("update is required")
			}
			if err := s.validate.Struct(req.Update); err != nil {
				return serviceerrors.InvalidArgument("invalid update: %v", err)
			}
			updated, err := s.updateTask(c, taskID, req.Update)
			if err != nil {
				return err
			}
			response.Task = s.convertTaskFromStore(updated)
			return nil
		},
		Delete: func(ctx context.Context, taskID string) error {
			return s.TaskService.DeleteTask(ctx, middleware.OwnerFromEcho(c), taskID)
		},
	})
	if errors.Is(err, calendar.ErrActionNotAllowed) {
		return s.handleError(c, serviceerrors.FailedPrecondition("%v", err))
	}
	if err != nil {
		return s.handleError(c, err)
	}
	if response.Task == nil && response.Encouragement == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) selectDay(ctx context.Context, owner, date string) (*calendar.Selection, calendar.Day, error) {
	key, ok := calendar.NormalizeDateKey(date)
	if !ok {
		return nil, calendar.Day{}, serviceerrors.InvalidArgument("invalid date %q", date)
	}
	snapshot, err := s.collect(ctx, owner)
	if err != nil {
		return nil, calendar.Day{}, err
	}
	day := calendar.ClassifyDay(key, calendar.TasksForDate(snapshot.Tasks, key), snapshot.Goal)
	return calendar.Select(day, snapshot.Goal), day, nil
}

func (s *APIV1Service) collect(ctx context.Context, owner string) (*stats.Snapshot, error) {
	snapshot, err := s.StatsCollector.Collect(ctx, owner)
	if err != nil {
		return nil, serviceerrors.Internal("failed to collect statistics", err)
	}
	return snapshot, nil
}
