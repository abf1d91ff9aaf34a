package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/toeicplanner/store"
)

func testTasks() []*store.Task {
	return []*store.Task{
		{ID: "1", Title: "Part 7 長文", Category: store.CategoryReading, DueDate: "2025-08-13"},
		{ID: "2", Title: "Part 2", Category: store.CategoryListening, DueDate: "2025-08-14", Completed: true,
			CompletionData: &store.CompletionData{Time: 45, Difficulty: "hard", Focus: "focused"}},
		{ID: "3", Title: "単語", Category: store.CategoryVocabulary, DueDate: "2025-09-01", Completed: true,
			CompletionData: &store.CompletionData{Time: 15, Difficulty: "easy", Focus: "normal"}},
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{`true`, []string{"1", "2", "3"}},
		{`category == "reading"`, []string{"1"}},
		{`!completed`, []string{"1"}},
		{`study_time >= 30`, []string{"2"}},
		{`due_date.startsWith("2025-08") && completed`, []string{"2"}},
		{`difficulty in ["easy", "hard"]`, []string{"2", "3"}},
		{`title.contains("Part")`, []string{"1", "2"}},
		{`due_date >= "2025-08-14" && due_date <= "2025-08-31"`, []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			program, err := Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, program.String())

			filtered, err := program.Filter(testTasks())
			require.NoError(t, err)
			ids := []string{}
			for _, task := range filtered {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, expr := range []string{
		`category ==`,
		`unknown_field == 1`,
		`study_time + 1`,
		`title`,
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Compile(expr)
			assert.Error(t, err)
		})
	}
}
