package validator

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/frontmatter/json"
	"github.com/thoreinstein/matter/pkg/frontmatter/toml"
	"github.com/thoreinstein/matter/pkg/frontmatter/yaml"
)

// Severity represents the impact of an issue.
type Severity int

const (
	// SeverityError indicates a blocking failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a non-blocking problem.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return errors.Newf("unknown severity %q", b)
	}
	return nil
}

// Issue is one problem in one document.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	// Line and Column are 1-based positions inside the frontmatter block.
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Format  string `json:"format,omitempty"`
	Message string `json:"message"`
}

// Error renders the issue as path:line:column: severity: message, leaving
// out unknown positions.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Path)
	if i.Line > 0 {
		fmt.Fprintf(&sb, ":%d", i.Line)
		if i.Column > 0 {
			fmt.Fprintf(&sb, ":%d", i.Column)
		}
	}
	sb.WriteString(": ")
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(i.Message)
	return sb.String()
}

// Result aggregates the issues of one check run.
type Result struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

func (r *Result) count(s Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// FailedPaths returns the distinct paths with errors, in issue order.
func (r *Result) FailedPaths() []string {
	var paths []string
	for _, i := range r.Errors() {
		if !slices.Contains(paths, i.Path) {
			paths = append(paths, i.Path)
		}
	}
	return paths
}

// AddError adds an error issue without a position.
func (r *Result) AddError(path, message string) {
	r.add(Issue{Severity: SeverityError, Path: path, Message: message})
}

// AddWarning adds a warning issue without a position.
func (r *Result) AddWarning(path, message string) {
	r.add(Issue{Severity: SeverityWarning, Path: path, Message: message})
}

// AddInfo adds an info issue without a position.
func (r *Result) AddInfo(path, message string) {
	r.add(Issue{Severity: SeverityInfo, Path: path, Message: message})
}

func (r *Result) add(i Issue) {
	r.Issues = append(r.Issues, i)
}

// AddParseError records err from parsing the frontmatter of path as format.
// TOML errors contribute one issue per syntax error. A nil err adds nothing.
func (r *Result) AddParseError(path, format string, err error) {
	if err == nil {
		return
	}

	var (
		tomlErr *toml.Error
		yamlErr *yaml.Error
		jsonErr *json.Error
	)
	switch {
	case errors.As(err, &tomlErr):
		for _, se := range tomlErr.Errors {
			r.add(Issue{
				Severity: SeverityError,
				Path:     path,
				Line:     se.Line,
				Column:   se.Column,
				Format:   "toml",
				Message:  se.Message,
			})
		}
	case errors.As(err, &yamlErr):
		r.add(Issue{
			Severity: SeverityError,
			Path:     path,
			Line:     yamlErr.Line,
			Format:   "yaml",
			Message:  strings.TrimPrefix(yamlErr.Err.Error(), "yaml: "),
		})
	case errors.As(err, &jsonErr):
		r.add(Issue{
			Severity: SeverityError,
			Path:     path,
			Line:     jsonErr.Line,
			Column:   jsonErr.Column,
			Format:   "json",
			Message:  jsonErr.Err.Error(),
		})
	default:
		r.add(Issue{Severity: SeverityError, Path: path, Format: format, Message: err.Error()})
	}
}

// Sort orders issues by path, then line, then column. Issues of one
// document keep their relative order otherwise.
func (r *Result) Sort() {
	slices.SortStableFunc(r.Issues, func(a, b Issue) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
		)
	})
}

// Errors returns a slice of all issues with SeverityError.
func (r *Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns a slice of all issues with SeverityWarning.
func (r *Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}
