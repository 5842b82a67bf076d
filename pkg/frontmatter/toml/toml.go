// Package toml parses TOML frontmatter and attaches it to a document.
package toml

import (
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/matter/pkg/extension"
	"github.com/thoreinstein/matter/pkg/frontmatter"
)

// Value is parsed TOML metadata. A TOML document is always a table.
type Value = map[string]any

// Metadata is the extension key under which Parse stores the parsed table.
var Metadata = extension.NewKey[Value]("toml.metadata")

// Parse decodes the document's frontmatter as TOML, stores it under
// Metadata and replaces the document content with the body.
//
// Without frontmatter the document is left as is. On a syntax error the
// document is left as is and the returned error is an *Error listing every
// syntax error found.
func Parse(doc frontmatter.Document) error {
	return frontmatter.Attach(doc, Metadata, Decode)
}

// Decode parses meta as a TOML document.
func Decode(meta string) (Value, error) {
	v := Value{}
	if err := gotoml.Unmarshal([]byte(meta), &v); err != nil {
		return nil, &Error{Errors: collect(meta, err)}
	}
	return v, nil
}
