package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/frontmatter"
	"github.com/thoreinstein/matter/pkg/frontmatter/json"
	"github.com/thoreinstein/matter/pkg/frontmatter/toml"
	"github.com/thoreinstein/matter/pkg/frontmatter/yaml"
)

// Format names a frontmatter metadata language.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	// FormatAuto picks the format from the file name.
	FormatAuto Format = "auto"
)

// Formats lists the concrete formats in lookup order.
var Formats = []Format{FormatTOML, FormatYAML, FormatJSON}

// Stage is one processing step applied to a document.
type Stage func(frontmatter.Document) error

// ParseFormat parses a format name, case-insensitively. "yml" is accepted
// for yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTOML, FormatYAML, FormatJSON, FormatAuto:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownFormat, "%q", s)
}

// FormatForPath picks the format for a file. overrides maps lower-case
// extensions with the leading dot to formats and wins over the built-in
// rule: .toml is toml, .json is json, anything else is yaml.
func FormatForPath(path string, overrides map[string]string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if name, ok := overrides[ext]; ok {
		if f, err := ParseFormat(name); err == nil && f != FormatAuto {
			return f
		}
	}
	switch ext {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}
	return FormatYAML
}

// Resolve returns f, or the format for path when f is FormatAuto.
func Resolve(f Format, path string, overrides map[string]string) Format {
	if f == FormatAuto || f == "" {
		return FormatForPath(path, overrides)
	}
	return f
}

// ParserFor returns the parse stage for f.
func ParserFor(f Format) (Stage, error) {
	switch f {
	case FormatTOML:
		return toml.Parse, nil
	case FormatYAML:
		return yaml.Parse, nil
	case FormatJSON:
		return json.Parse, nil
	}
	return nil, errors.Wrapf(errors.ErrUnknownFormat, "no parser for %q", f)
}
