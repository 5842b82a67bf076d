// Package item provides the concrete document type that the matter CLI
// reads from disk and runs parsers over.
package item

import (
	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/extension"
	"github.com/thoreinstein/matter/pkg/fileutil"
	"github.com/thoreinstein/matter/pkg/frontmatter"
)

var _ frontmatter.Document = (*Item)(nil)

// Item is a document identified by its path.
type Item struct {
	// Path is where the item was read from. It may be empty for items
	// built in memory.
	Path string

	// Body is the current text. Parsers replace it with the text that
	// follows the frontmatter block.
	Body string

	ext extension.Map
}

// New returns an item with the given path and body.
func New(path, body string) *Item {
	return &Item{Path: path, Body: body}
}

// Read loads the file at path into a new item.
// Files larger than fileutil.MaxFileSize are rejected.
func Read(path string) (*Item, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return New(path, string(data)), nil
}

// Content returns the item's body.
func (i *Item) Content() string { return i.Body }

// SetContent replaces the item's body.
func (i *Item) SetContent(s string) { i.Body = s }

// Extensions returns the item's typed value store.
func (i *Item) Extensions() *extension.Map { return &i.ext }
