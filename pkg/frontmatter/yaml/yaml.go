// Package yaml parses YAML frontmatter and attaches it to a document.
//
// Only the first document of a multi-document stream is kept. Later
// documents must still be well formed, but their content is discarded.
package yaml

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/extension"
	"github.com/thoreinstein/matter/pkg/frontmatter"
)

// Value is parsed YAML metadata: map[string]any, []any, a scalar, or nil.
type Value = any

// Metadata is the extension key under which Parse stores the parsed value.
var Metadata = extension.NewKey[Value]("yaml.metadata")

// Parse decodes the document's frontmatter as YAML, stores it under
// Metadata and replaces the document content with the body.
//
// Without frontmatter the document is left as is. On a syntax error the
// document is left as is and the returned error is an *Error.
func Parse(doc frontmatter.Document) error {
	return frontmatter.Attach(doc, Metadata, Decode)
}

// Decode parses meta and returns its first YAML document. A stream with no
// documents, such as whitespace or comments only, decodes to nil.
func Decode(meta string) (Value, error) {
	dec := yamlv3.NewDecoder(strings.NewReader(meta))

	var first Value
	if err := dec.Decode(&first); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, newError(err)
	}

	for {
		var rest yamlv3.Node
		err := dec.Decode(&rest)
		if errors.Is(err, io.EOF) {
			return first, nil
		}
		if err != nil {
			return nil, newError(err)
		}
	}
}

// Error reports YAML frontmatter that failed to parse. Line is the 1-based
// line within the frontmatter text the parser named, or zero.
type Error struct {
	Line int
	Err  error
}

var linePattern = regexp.MustCompile(`\bline (\d+):`)

func newError(err error) *Error {
	e := &Error{Err: err}
	if m := linePattern.FindStringSubmatch(err.Error()); m != nil {
		e.Line, _ = strconv.Atoi(m[1])
	}
	return e
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Is reports true for frontmatter.ErrSyntax.
func (e *Error) Is(target error) bool {
	return target == frontmatter.ErrSyntax
}

func (e *Error) Unwrap() error {
	return e.Err
}
