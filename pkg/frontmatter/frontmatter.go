package frontmatter

import (
	"regexp"
	"strings"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/extension"
)

// Delimiter opens and closes a frontmatter block.
const Delimiter = "---"

// ErrSyntax marks every error returned for frontmatter that is present but
// not valid in the requested format.
var ErrSyntax = errors.New("frontmatter syntax error")

// blockPattern matches a delimited block anchored at the first byte. The
// metadata group is optional so an empty block still matches, and is lazy
// so the first closing delimiter line wins.
var blockPattern = regexp.MustCompile(`(?s)\A---[ \t\r\f\v]*\n(.*?\n)??---[ \t\r\f\v]*(?:\n|\z)`)

// Split separates content into its frontmatter text and its body.
//
// The content must start with a "---" line. The metadata runs up to the
// next line that is exactly "---", and the body is everything after that
// line's line break. When there is no such block, or the block is empty,
// meta is "" and body is content. Both results share memory with content.
func Split(content string) (meta, body string) {
	loc := blockPattern.FindStringSubmatchIndex(content)
	if loc == nil || loc[2] < 0 {
		return "", content
	}
	return content[loc[2]:loc[3]], content[loc[1]:]
}

// Join is the inverse of Split: it wraps meta in delimiter lines and
// appends body. A missing final line break on meta is added.
func Join(meta, body string) string {
	var sb strings.Builder
	sb.Grow(len(meta) + len(body) + 2*len(Delimiter) + 3)
	sb.WriteString(Delimiter)
	sb.WriteByte('\n')
	sb.WriteString(meta)
	if meta != "" && !strings.HasSuffix(meta, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString(Delimiter)
	sb.WriteByte('\n')
	sb.WriteString(body)
	return sb.String()
}

// Document is the unit of content that parsers read and mutate.
//
// Extensions must return the same non-nil map for the life of the
// document. Callers must not run two parsers on one document at the same
// time.
type Document interface {
	// Content returns the current text of the document.
	Content() string
	// SetContent replaces the text of the document.
	SetContent(string)
	// Extensions returns the document's typed value store.
	Extensions() *extension.Map
}

// DecodeFunc turns frontmatter text into a value of type V.
type DecodeFunc[V any] func(meta string) (V, error)

// Attach runs the shared parse protocol for one format.
//
// It splits the document content. Without frontmatter it returns nil and
// changes nothing. Otherwise it decodes the metadata; a decode error is
// returned as is and the document is unchanged. On success the value is
// stored under key, replacing any earlier value, and the content becomes
// the body.
func Attach[V any](doc Document, key *extension.Key[V], decode DecodeFunc[V]) error {
	meta, body := Split(doc.Content())
	if meta == "" {
		return nil
	}

	v, err := decode(meta)
	if err != nil {
		return err
	}

	extension.Set(doc.Extensions(), key, v)
	// Copy the body so the document stops pinning the original content.
	doc.SetContent(strings.Clone(body))
	return nil
}
