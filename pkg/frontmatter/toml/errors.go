package toml

import (
	"fmt"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/frontmatter"
)

// SyntaxError is one problem found in TOML frontmatter. Line and Column
// are 1-based positions within the frontmatter text; zero means unknown.
type SyntaxError struct {
	Line    int
	Column  int
	Key     []string
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Error reports TOML frontmatter that failed to parse. It always holds at
// least one SyntaxError, in document order.
type Error struct {
	Errors []*SyntaxError
}

// Error renders every syntax error, one per line.
func (e *Error) Error() string {
	lines := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		lines[i] = se.Error()
	}
	return strings.Join(lines, "\n")
}

// Is reports true for frontmatter.ErrSyntax.
func (e *Error) Is(target error) bool {
	return target == frontmatter.ErrSyntax
}

// Unwrap exposes the individual syntax errors.
func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, se := range e.Errors {
		errs[i] = se
	}
	return errs
}

// collect gathers as many syntax errors as it can. go-toml stops at the
// first error, so each top-level section is decoded on its own, and within
// a section the failing statement is blanked out and the section decoded
// again. When every section decodes by itself the failure spans sections
// (a table defined twice, say) and the whole document error is reported.
//
// Errors that follow a broken statement in a way that depends on it, such
// as a key that only clashes with the broken one, are not reported.
func collect(meta string, whole error) []*SyntaxError {
	var errs []*SyntaxError
	for _, s := range splitSections(meta) {
		errs = append(errs, sectionErrors(s)...)
	}
	if len(errs) == 0 {
		return []*SyntaxError{toSyntaxError(whole, 0)}
	}
	return errs
}

// sectionErrors decodes s repeatedly, blanking each failing statement so
// the next decode gets past it. Line numbers are kept.
func sectionErrors(s section) []*SyntaxError {
	lines := strings.SplitAfter(s.text, "\n")

	var errs []*SyntaxError
	for range lines {
		var v map[string]any
		err := gotoml.Unmarshal([]byte(strings.Join(lines, "")), &v)
		if err == nil {
			return errs
		}
		se := toSyntaxError(err, s.line)
		if n := len(errs); n > 0 && sameSpot(errs[n-1], se) {
			return errs
		}
		errs = append(errs, se)

		row := se.Line - s.line - 1
		if se.Line == 0 || row < 0 || row >= len(lines) {
			return errs
		}
		from, to := statementSpan(lines, row)
		if from == 0 && headerPattern.MatchString(lines[0]) {
			// The table header itself is broken.
			return errs
		}
		blanked := false
		for i := from; i <= to; i++ {
			if strings.TrimSpace(lines[i]) != "" {
				blanked = true
			}
			lines[i] = blankLine(lines[i])
		}
		if !blanked {
			return errs
		}
	}
	return errs
}

func sameSpot(a, b *SyntaxError) bool {
	return a.Line == b.Line && a.Column == b.Column && a.Message == b.Message
}

// statementSpan returns the first and last line of the statement that
// covers line r.
func statementSpan(lines []string, r int) (from, to int) {
	var sc scanState
	for i := 0; i <= r; i++ {
		if sc.idle() {
			from = i
		}
		sc.scan(lines[i])
	}
	to = r
	for !sc.idle() && to+1 < len(lines) {
		to++
		sc.scan(lines[to])
	}
	return from, to
}

// blankLine empties line but keeps its line break.
func blankLine(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}

func toSyntaxError(err error, lineOffset int) *SyntaxError {
	var de *gotoml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return &SyntaxError{
			Line:    row + lineOffset,
			Column:  col,
			Key:     de.Key(),
			Message: strings.TrimPrefix(de.Error(), "toml: "),
		}
	}
	return &SyntaxError{Message: err.Error()}
}
