// Package render turns a parsed document's body into HTML with goldmark.
package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmext "github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/pipeline"
	"github.com/thoreinstein/matter/pkg/frontmatter"
)

// Page is a rendered document.
type Page struct {
	Title string
	HTML  string
}

// Renderer wraps goldmark for body rendering.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GitHub flavored Markdown enabled.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(gmext.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts the document content to HTML. The document should
// already have been through a parser so its content is the body.
//
// The title is the string "title" field of the metadata when there is one,
// else the text of the first level-1 heading, else empty.
func (r *Renderer) Render(doc frontmatter.Document) (*Page, error) {
	source := []byte(doc.Content())
	root := r.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, root); err != nil {
		return nil, errors.Wrap(err, "rendering markdown")
	}

	title, ok := metadataTitle(doc)
	if !ok {
		title = firstHeading(root, source)
	}
	return &Page{Title: title, HTML: buf.String()}, nil
}

func metadataTitle(doc frontmatter.Document) (string, bool) {
	v, ok := pipeline.Field(doc, "title")
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func firstHeading(root ast.Node, source []byte) string {
	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = plainText(h, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// plainText concatenates the text segments below n, dropping markup.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
