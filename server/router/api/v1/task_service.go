package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/toeicplanner/plugin/encouragement"
	"github.com/hrygo/toeicplanner/plugin/filter"
	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/server/middleware"
	"github.com/hrygo/toeicplanner/server/service/task"
	"github.com/hrygo/toeicplanner/store"
)

// ListTasks lists the owner's tasks.
// With a filter expression, limit and offset page through the filtered tasks.
// GET /api/v1/tasks?completed=&from=&to=&category=&filter=&limit=&offset=
func (s *APIV1Service) ListTasks(c echo.Context) error {
	req := &task.ListTasksRequest{}
	if v := c.QueryParam("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return s.handleError(c, serviceerrors.InvalidArgument("completed must be true or false"))
		}
		req.Completed = &completed
	}
	if v := c.QueryParam("from"); v != "" {
		req.From = &v
	}
	if v := c.QueryParam("to"); v != "" {
		req.To = &v
	}
	if v := c.QueryParam("category"); v != "" {
		category := store.TaskCategory(v)
		req.Category = &category
	}
	for name, target := range map[string]**int{"limit": &req.Limit, "offset": &req.Offset} {
		if v := c.QueryParam(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return s.handleError(c, serviceerrors.InvalidArgument("%s must be a non-negative integer", name))
			}
			*target = &n
		}
	}

	var program *filter.Program
	if expr := c.QueryParam("filter"); expr != "" {
		var err error
		program, err = filter.Compile(expr)
		if err != nil {
			return s.handleError(c, serviceerrors.InvalidArgument("%v", err))
		}
	}

	var limit, offset *int
	if program != nil {
		limit, offset = req.Limit, req.Offset
		req.Limit, req.Offset = nil, nil
	}

	owner := middleware.OwnerFromEcho(c)
	tasks, err := s.TaskService.ListTasks(c.Request().Context(), owner, req)
	if err != nil {
		return s.handleError(c, err)
	}
	if program != nil {
		tasks, err = program.Filter(tasks)
		if err != nil {
			return s.handleError(c, serviceerrors.InvalidArgument("%v", err))
		}
		tasks = paginate(tasks, limit, offset)
	}
	return c.JSON(http.StatusOK, s.convertTasksFromStore(tasks))
}

func paginate(tasks []*store.Task, limit, offset *int) []*store.Task {
	if offset != nil {
		if *offset >= len(tasks) {
			return []*store.Task{}
		}
		tasks = tasks[*offset:]
	}
	if limit != nil && *limit < len(tasks) {
		tasks = tasks[:*limit]
	}
	return tasks
}

// CreateTask creates a task.
// POST /api/v1/tasks
func (s *APIV1Service) CreateTask(c echo.Context) error {
	req := &CreateTaskRequest{}
	if err := s.bind(c, req); err != nil {
		return s.handleError(c, err)
	}
	created, err := s.TaskService.CreateTask(c.Request().Context(), middleware.OwnerFromEcho(c), &task.CreateTaskRequest{
		Title:       req.Title,
		Category:    store.TaskCategory(req.Category),
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(http.StatusCreated, s.convertTaskFromStore(created))
}

// CreateTaskRange creates the same task on every day of a range.
// POST /api/v1/tasks/range
func (s *APIV1Service) CreateTaskRange(c echo.Context) error {
	req := &CreateTaskRangeRequest{}
	if err := s.bind(c, req); err != nil {
		return s.handleError(c, err)
	}
	created, err := s.TaskService.CreateTasksInRange(c.Request().Context(), middleware.OwnerFromEcho(c), &task.CreateTaskRangeRequest{
		Title:       req.Title,
		Category:    store.TaskCategory(req.Category),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(http.StatusCreated, s.convertTasksFromStore(created))
}

// GetTask returns one task.
// GET /api/v1/tasks/:id
func (s *APIV1Service) GetTask(c echo.Context) error {
	found, err := s.TaskService.GetTask(c.Request().Context(), middleware.OwnerFromEcho(c), c.Param("id"))
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(http.StatusOK, s.convertTaskFromStore(found))
}

// UpdateTask applies a partial update.
// PATCH /api/v1/tasks/:id
func (s *APIV1Service) UpdateTask(c echo.Context) error {
	req := &UpdateTaskRequest{}
	if err := s.bind(c, req); err != nil {
		return s.handleError(c, err)
	}
	updated, err := s.updateTask(c, c.Param("id"), req)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(http.StatusOK, s.convertTaskFromStore(updated))
}

func (s *APIV1Service) updateTask(c echo.Context, id string, req *UpdateTaskRequest) (*store.Task, error) {
	update := &task.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Category != nil {
		category := store.TaskCategory(*req.Category)
		update.Category = &category
	}
	return s.TaskService.UpdateTask(c.Request().Context(), middleware.OwnerFromEcho(c), id, update)
}

// DeleteTask deletes a task.
// DELETE /api/v1/tasks/:id
func (s *APIV1Service) DeleteTask(c echo.Context) error {
	if err := s.TaskService.DeleteTask(c.Request().Context(), middleware.OwnerFromEcho(c), c.Param("id")); err != nil {
		return s.handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CompleteTask completes a task and returns an encouragement picked from the
// updated statistics.
// POST /api/v1/tasks/:id/complete
func (s *APIV1Service) CompleteTask(c echo.Context) error {
	req := &CompleteTaskRequest{}
	if err := s.bind(c, req); err != nil {
		return s.handleError(c, err)
	}
	response, err := s.completeTask(c, c.Param("id"), req)
	if err != nil {
		return s.handleError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) completeTask(c echo.Context, id string, req *CompleteTaskRequest) (*CompleteTaskResponse, error) {
	ctx := c.Request().Context()
	owner := middleware.OwnerFromEcho(c)
	completed, err := s.TaskService.CompleteTask(ctx, owner, id, &store.CompletionData{
		Time:       req.Time,
		Difficulty: req.Difficulty,
		Focus:      req.Focus,
	})
	if err != nil {
		return nil, err
	}

	message, err := s.encouragementFor(c, owner)
	if err != nil {
		return nil, err
	}
	return &CompleteTaskResponse{
		Task:          s.convertTaskFromStore(completed),
		Encouragement: message,
	}, nil
}

// encouragementFor picks a message for the owner's current statistics.
func (s *APIV1Service) encouragementFor(c echo.Context, owner string) (*encouragement.Message, error) {
	ctx := c.Request().Context()
	snapshot, err := s.StatsCollector.Collect(ctx, owner)
	if err != nil {
		return nil, serviceerrors.Internal("failed to collect statistics", err)
	}

	opts := []encouragement.Option{encouragement.WithClock(s.localNow)}
	if s.random != nil {
		opts = append(opts, encouragement.WithRandom(s.random))
	}
	engine := encouragement.NewService(encouragement.NewHistoryManager(s.Store.KeyValueFor(owner)), opts...)
	message := engine.GetMessage(ctx, encouragement.State{
		CompletionRate: snapshot.Overview.CompletionRate,
		TotalTasks:     snapshot.Overview.Total,
		CompletedTasks: snapshot.Overview.Completed,
		HasGoal:        snapshot.Overview.HasGoal,
	})
	return &message, nil
}
