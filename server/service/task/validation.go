package task

import (
	"slices"
	"strings"
	"unicode/utf8"

	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/store"
)

const (
	// MaxTitleLength is the maximum title length in characters.
	MaxTitleLength = 200
	// MaxRangeDays is the maximum number of days CreateTasksInRange creates.
	MaxRangeDays = 366
)

// normalizeTitle trims title and checks it is non-empty and short enough.
func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", serviceerrors.InvalidArgument("title is required").WithContext("field", "title")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", serviceerrors.InvalidArgument("title must be at most %d characters", MaxTitleLength).WithContext("field", "title")
	}
	return title, nil
}

func validateCategory(category store.TaskCategory) error {
	if !category.IsValid() {
		return serviceerrors.InvalidArgument("unknown category %q", category).WithContext("field", "category")
	}
	return nil
}

func validateDate(field, value string) error {
	if !store.IsValidDueDate(value) {
		return serviceerrors.InvalidArgument("%s must be a date in YYYY-MM-DD format, got %q", field, value).WithContext("field", field)
	}
	return nil
}

func validateCompletion(data *store.CompletionData) error {
	if data == nil {
		return serviceerrors.InvalidArgument("completion data is required")
	}
	if data.Time <= 0 {
		return serviceerrors.InvalidArgument("study time must be positive").WithContext("field", "time")
	}
	if !slices.Contains(store.Difficulties, data.Difficulty) {
		return serviceerrors.InvalidArgument("unknown difficulty %q", data.Difficulty).WithContext("field", "difficulty")
	}
	if !slices.Contains(store.FocusLevels, data.Focus) {
		return serviceerrors.InvalidArgument("unknown focus %q", data.Focus).WithContext("field", "focus")
	}
	return nil
}
