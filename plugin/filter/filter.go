// Package filter evaluates CEL expressions against study tasks, e.g.
//
//	category == "reading" && !completed
//	study_time >= 30 && due_date.startsWith("2025-08")
package filter

import (
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/hrygo/toeicplanner/store"
)

// Variables available to expressions.
const (
	VarTitle       = "title"
	VarDescription = "description"
	VarCategory    = "category"
	VarDueDate     = "due_date"
	VarCompleted   = "completed"
	VarStudyTime   = "study_time"
	VarDifficulty  = "difficulty"
	VarFocus       = "focus"
)

var taskEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(VarTitle, cel.StringType),
		cel.Variable(VarDescription, cel.StringType),
		cel.Variable(VarCategory, cel.StringType),
		cel.Variable(VarDueDate, cel.StringType),
		cel.Variable(VarCompleted, cel.BoolType),
		cel.Variable(VarStudyTime, cel.IntType),
		cel.Variable(VarDifficulty, cel.StringType),
		cel.Variable(VarFocus, cel.StringType),
	)
})

// Program is a compiled boolean task filter. It is safe for concurrent use.
type Program struct {
	expr    string
	program cel.Program
}

// Compile parses and type-checks expr. The expression must evaluate to a bool.
func Compile(expr string) (*Program, error) {
	env, err := taskEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter environment")
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "invalid filter %q", expr)
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errors.Errorf("filter %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build filter %q", expr)
	}
	return &Program{expr: expr, program: program}, nil
}

// String returns the source expression.
func (p *Program) String() string {
	return p.expr
}

// Match reports whether task satisfies the filter.
func (p *Program) Match(task *store.Task) (bool, error) {
	out, _, err := p.program.Eval(activation(task))
	if err != nil {
		return false, errors.Wrapf(err, "failed to evaluate filter on task %s", task.ID)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("filter returned %T", out.Value())
	}
	return matched, nil
}

// Filter returns the tasks matching the filter, keeping their order.
func (p *Program) Filter(tasks []*store.Task) ([]*store.Task, error) {
	result := make([]*store.Task, 0, len(tasks))
	for _, task := range tasks {
		matched, err := p.Match(task)
		if err != nil {
			return nil, err
		}
		if matched {
			result = append(result, task)
		}
	}
	return result, nil
}

func activation(task *store.Task) map[string]any {
	vars := map[string]any{
		VarTitle:       task.Title,
		VarDescription: task.Description,
		VarCategory:    string(task.Category),
		VarDueDate:     task.DueDate,
		VarCompleted:   task.Completed,
		VarStudyTime:   int64(0),
		VarDifficulty:  "",
		VarFocus:       "",
	}
	if data := task.CompletionData; data != nil {
		vars[VarStudyTime] = int64(data.Time)
		vars[VarDifficulty] = data.Difficulty
		vars[VarFocus] = data.Focus
	}
	return vars
}
