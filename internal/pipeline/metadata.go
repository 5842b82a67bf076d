package pipeline

import (
	"github.com/thoreinstein/matter/pkg/extension"
	"github.com/thoreinstein/matter/pkg/frontmatter"
	"github.com/thoreinstein/matter/pkg/frontmatter/json"
	"github.com/thoreinstein/matter/pkg/frontmatter/toml"
	"github.com/thoreinstein/matter/pkg/frontmatter/yaml"
)

// Metadata is parsed frontmatter together with the format it came from.
type Metadata struct {
	Format Format
	Value  any
}

// Lookup returns the metadata stored on doc by any of the parsers,
// checking toml, yaml and json in that order.
func Lookup(doc frontmatter.Document) (Metadata, bool) {
	ext := doc.Extensions()
	if v, ok := extension.Get(ext, toml.Metadata); ok {
		return Metadata{Format: FormatTOML, Value: v}, true
	}
	if v, ok := extension.Get(ext, yaml.Metadata); ok {
		return Metadata{Format: FormatYAML, Value: v}, true
	}
	if v, ok := extension.Get(ext, json.Metadata); ok {
		return Metadata{Format: FormatJSON, Value: v}, true
	}
	return Metadata{}, false
}

// Field returns the top-level metadata entry name. It reports false when
// no metadata is stored, the metadata is not a table, or name is absent.
func Field(doc frontmatter.Document, name string) (any, bool) {
	md, ok := Lookup(doc)
	if !ok {
		return nil, false
	}
	switch m := md.Value.(type) {
	case map[string]any:
		v, ok := m[name]
		return v, ok
	case map[any]any:
		v, ok := m[name]
		return v, ok
	}
	return nil, false
}
