package v1

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/server/middleware"
	"github.com/hrygo/toeicplanner/server/service/task"
	"github.com/hrygo/toeicplanner/server/timezone"
	"github.com/hrygo/toeicplanner/store"
)

const maxFeedItems = 50

// GetRSSFeed returns the owner's upcoming tasks as RSS 2.0.
// GET /api/v1/feed/rss
func (s *APIV1Service) GetRSSFeed(c echo.Context) error {
	feed, err := s.buildFeed(c)
	if err != nil {
		return s.handleError(c, err)
	}
	rss, err := feed.ToRss()
	if err != nil {
		return s.handleError(c, serviceerrors.Internal("failed to render rss", err))
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

// GetAtomFeed returns the owner's upcoming tasks as Atom.
// GET /api/v1/feed/atom
func (s *APIV1Service) GetAtomFeed(c echo.Context) error {
	feed, err := s.buildFeed(c)
	if err != nil {
		return s.handleError(c, err)
	}
	atom, err := feed.ToAtom()
	if err != nil {
		return s.handleError(c, serviceerrors.Internal("failed to render atom", err))
	}
	return c.Blob(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(atom))
}

// buildFeed lists the incomplete tasks due today or later, earliest first.
func (s *APIV1Service) buildFeed(c echo.Context) (*feeds.Feed, error) {
	owner := middleware.OwnerFromEcho(c)
	now := s.localNow()
	today := timezone.DateOf(now, now.Location())
	incomplete := false
	limit := maxFeedItems
	tasks, err := s.TaskService.ListTasks(c.Request().Context(), owner, &task.ListTasksRequest{
		Completed: &incomplete,
		From:      &today,
		Limit:     &limit,
	})
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(s.Profile.InstanceURL, "/")
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("TOEIC 学習タスク (%s)", owner),
		Link:        &feeds.Link{Href: baseURL + "/"},
		Description: "今後の学習タスク",
		Created:     now,
	}
	for _, t := range tasks {
		item, err := s.feedItem(baseURL, t)
		if err != nil {
			return nil, err
		}
		feed.Items = append(feed.Items, item)
	}
	return feed, nil
}

func (s *APIV1Service) feedItem(baseURL string, t *store.Task) (*feeds.Item, error) {
	description, err := s.MarkdownService.RenderHTML(t.Description)
	if err != nil {
		return nil, serviceerrors.Internal("failed to render description", err)
	}
	due, err := store.ParseDueDate(t.DueDate, s.Profile.Location())
	if err != nil {
		due = time.Unix(t.CreatedTs, 0)
	}
	return &feeds.Item{
		Id:          t.ID,
		Title:       fmt.Sprintf("[%s] %s (%s)", t.Category.Label(), t.Title, t.DueDate),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/api/v1/tasks/%s", baseURL, t.ID)},
		Description: description,
		Created:     due,
		Updated:     time.Unix(t.UpdatedTs, 0).In(s.Profile.Location()),
	}, nil
}
