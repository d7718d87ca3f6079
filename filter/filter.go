// Package filter provides client-side filtering of fetched projects
// using expr expressions.
package filter

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/adilzhn/algoclient/algoritmika"
)

// Filter is a compiled project filter expression
type Filter struct {
	program *vm.Program
	expr    string
}

// helperEnv returns the static helper functions available in expressions
func helperEnv() map[string]any {
	return map[string]any{
		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		// Current time
		"now": time.Now,
	}
}

// Compile compiles a filter expression
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty filter expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperEnv()),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile filter expression",
			Err:        err,
		}
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// Match evaluates the filter against a project
func (f *Filter) Match(project algoritmika.Project) bool {
	env := helperEnv()

	// Project-specific helpers
	env["isType"] = func(kind string) bool {
		return strings.EqualFold(string(project.Type), kind)
	}
	env["byAuthor"] = func(name string) bool {
		return strings.EqualFold(project.Author.FullName, name)
	}
	env["hasAvailability"] = func(mode string) bool {
		for _, m := range project.Availability {
			if strings.EqualFold(m, mode) {
				return true
			}
		}
		return false
	}
	env["hasDescription"] = func() bool {
		return project.Description != ""
	}
	env["isRemix"] = func() bool {
		return project.OriginalProject != nil
	}

	// Direct project properties for convenience
	env["Project"] = project
	env["ID"] = project.ID
	env["Title"] = project.Title
	env["Description"] = project.Description
	env["Type"] = string(project.Type)
	env["Availability"] = project.Availability
	env["Likes"] = project.Likes
	env["Views"] = project.Views
	env["Remixes"] = project.Remixes
	env["Comments"] = project.Comments
	env["IsDeleted"] = project.IsDeleted
	env["Author"] = project.Author.FullName
	env["RemixEnabled"] = project.RemixEnabled
	env["Uploads"] = len(project.Uploads)
	env["CreatedAt"] = project.CreatedAt
	env["UpdatedAt"] = project.UpdatedAt

	result, err := expr.Run(f.program, env)
	if err != nil {
		// skip projects the expression cannot be evaluated against
		return false
	}

	if boolResult, ok := result.(bool); ok {
		return boolResult
	}

	return false
}

// String returns the original expression
func (f *Filter) String() string {
	return f.expr
}

// CreateFilter creates a filter function from an expression
func CreateFilter(expression string) (func(algoritmika.Project) bool, error) {
	filter, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	return filter.Match, nil
}
