// Package json parses JSON frontmatter and attaches it to a document.
package json

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/extension"
	"github.com/thoreinstein/matter/pkg/frontmatter"
)

// Value is parsed JSON metadata: map[string]any, []any, string, bool, nil,
// or a number. Integral numbers are int64, or uint64 above the int64
// range; all others are float64.
type Value = any

// Metadata is the extension key under which Parse stores the parsed value.
var Metadata = extension.NewKey[Value]("json.metadata")

// Parse decodes the document's frontmatter as JSON, stores it under
// Metadata and replaces the document content with the body.
//
// Without frontmatter the document is left as is. On a syntax error the
// document is left as is and the returned error is an *Error.
func Parse(doc frontmatter.Document) error {
	return frontmatter.Attach(doc, Metadata, Decode)
}

// Decode parses meta as exactly one JSON value. Whitespace-only input and
// trailing data after the value are errors.
func Decode(meta string) (Value, error) {
	data := []byte(meta)
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v Value
	if err := dec.Decode(&v); err != nil {
		return nil, newError(strictError(data, err), data)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newError(strictError(data, err), data)
	}

	v, err := numbers(v)
	if err != nil {
		return nil, &Error{Err: err}
	}
	return v, nil
}

// strictError returns the error encoding/json.Unmarshal reports for data,
// which carries an offset for truncated input and trailing data, or
// fallback when Unmarshal accepts it.
func strictError(data []byte, fallback error) error {
	var discard any
	if err := stdjson.Unmarshal(data, &discard); err != nil {
		return err
	}
	if fallback == nil {
		return errors.New("unexpected data after top-level value")
	}
	return fallback
}

// numbers replaces every json.Number in v with int64, uint64 or float64.
func numbers(v any) (any, error) {
	switch t := v.(type) {
	case stdjson.Number:
		return number(t)
	case map[string]any:
		for k, val := range t {
			n, err := numbers(val)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
	case []any:
		for i, val := range t {
			n, err := numbers(val)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
	}
	return v, nil
}

func number(n stdjson.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, errors.Newf("number %s out of range", n)
	}
	return f, nil
}

// Error reports JSON frontmatter that failed to parse. Line and Column are
// 1-based positions within the frontmatter text; zero means unknown.
type Error struct {
	Line   int
	Column int
	Err    error
}

func newError(err error, data []byte) *Error {
	e := &Error{Err: err}
	var syntaxErr *stdjson.SyntaxError
	if errors.As(err, &syntaxErr) {
		e.Line, e.Column = lineCol(data, int(syntaxErr.Offset))
	}
	return e
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Is reports true for frontmatter.ErrSyntax.
func (e *Error) Is(target error) bool {
	return target == frontmatter.ErrSyntax
}

func (e *Error) Unwrap() error {
	return e.Err
}

// lineCol converts a byte offset to 1-based line and column numbers.
func lineCol(data []byte, offset int) (line, col int) {
	offset = max(0, min(offset, len(data)))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}
