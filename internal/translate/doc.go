// Package translate re-encodes decoded frontmatter values as TOML, YAML
// or JSON, and rebuilds documents around the result.
package translate
