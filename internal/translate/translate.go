package translate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/frontmatter"
)

// Encode renders v in format, one of "toml", "yaml" or "json". The output
// ends with a line break unless it is empty.
func Encode(v any, format string) ([]byte, error) {
	v = normalize(v)

	switch format {
	case "toml":
		if v == nil {
			return nil, nil
		}
		if _, ok := v.(map[string]any); !ok {
			return nil, errors.Newf("toml needs a table at the top level, got %T", v)
		}
		out, err := toml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling toml")
		}
		return out, nil

	case "yaml":
		if v == nil {
			return nil, nil
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, errors.Wrap(err, "marshaling yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "marshaling yaml")
		}
		return buf.Bytes(), nil

	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshaling json")
		}
		return append(out, '\n'), nil
	}

	return nil, errors.Wrapf(errors.ErrUnknownFormat, "%q", format)
}

// Frontmatter encodes v in format and joins it with body into a document
// whose frontmatter block splits back into the encoded text.
func Frontmatter(v any, format, body string) ([]byte, error) {
	meta, err := Encode(v, format)
	if err != nil {
		return nil, err
	}
	return []byte(frontmatter.Join(string(meta), body)), nil
}

// YAMLToTOML converts YAML data to TOML data.
func YAMLToTOML(yamlData []byte) ([]byte, error) {
	var data any
	if err := yaml.Unmarshal(yamlData, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshaling yaml")
	}
	return Encode(data, "toml")
}

// TOMLToYAML converts TOML data to YAML data.
func TOMLToYAML(tomlData []byte) ([]byte, error) {
	var data map[string]any
	if err := toml.Unmarshal(tomlData, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshaling toml")
	}
	return Encode(data, "yaml")
}

// normalize rewrites YAML's map[any]any tables as map[string]any so every
// encoder accepts them.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	}
	return v
}
