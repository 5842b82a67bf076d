package yaml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/matter/pkg/extension"
	"github.com/thoreinstein/matter/pkg/frontmatter"
	"github.com/thoreinstein/matter/pkg/item"
)

func TestParse(t *testing.T) {
	doc := item.New("input.md", "---\nname: testing\n---\nmultiline\nbody")

	require.NoError(t, Parse(doc))

	assert.Equal(t, "multiline\nbody", doc.Body)
	meta, ok := extension.Get(doc.Extensions(), Metadata)
	require.True(t, ok)
	m, ok := meta.(map[string]any)
	require.True(t, ok, "metadata should be a mapping, got %T", meta)
	assert.Equal(t, "testing", m["name"])
}

func TestParse_Structures(t *testing.T) {
	doc := item.New("", `---
title: Post
tags:
  - a
  - b
description: |
  line one
  line two
---

Body
`)

	require.NoError(t, Parse(doc))

	meta, _ := extension.Get(doc.Extensions(), Metadata)
	m := meta.(map[string]any)
	assert.Equal(t, []any{"a", "b"}, m["tags"])
	assert.Equal(t, "line one\nline two\n", m["description"])
	assert.Equal(t, "\nBody\n", doc.Body)
}

func TestParse_Unchanged(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"no frontmatter", "multiline\nbody", false},
		{"leading junk", "junk ---\nname: test\n---\nbody", false},
		{"invalid yaml", "---\nname: [broken\n  this is broken\n---\nbody", true},
		{"tab indentation", "---\na:\n\tb: 1\n---\nbody", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := item.New("", tt.content)

			err := Parse(doc)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, frontmatter.ErrSyntax))
				var yamlErr *Error
				assert.True(t, errors.As(err, &yamlErr))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.content, doc.Body)
			assert.False(t, extension.Has(doc.Extensions(), Metadata))
		})
	}
}

func TestParse_NoBody(t *testing.T) {
	doc := item.New("", "---\nname: test\n---")

	require.NoError(t, Parse(doc))

	assert.Equal(t, "", doc.Body)
	assert.True(t, extension.Has(doc.Extensions(), Metadata))
}

func TestParse_NullValuesAreStored(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"whitespace only", "---\n   \n---\nbody"},
		{"comment only", "---\n# nothing here\n---\nbody"},
		{"explicit null", "---\n~\n---\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := item.New("", tt.content)

			require.NoError(t, Parse(doc))

			meta, ok := extension.Get(doc.Extensions(), Metadata)
			assert.True(t, ok)
			assert.Nil(t, meta)
			assert.Equal(t, "body", doc.Body)
		})
	}
}

func TestDecode_FirstDocumentOnly(t *testing.T) {
	// A frontmatter block cannot contain a bare "---" line, so this only
	// reaches Decode when called directly.
	v, err := Decode("name: first\n---\nname: second\n")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "first"}, v)
}

func TestDecode_MalformedLaterDocument(t *testing.T) {
	_, err := Decode("name: first\n---\n[unclosed\n")

	require.Error(t, err)
	assert.True(t, errors.Is(err, frontmatter.ErrSyntax))
}

func TestParse_Idempotent(t *testing.T) {
	doc := item.New("", "---\nname: first\n---\nbody")
	require.NoError(t, Parse(doc))

	require.NoError(t, Parse(doc))

	meta, _ := extension.Get(doc.Extensions(), Metadata)
	assert.Equal(t, map[string]any{"name": "first"}, meta)
	assert.Equal(t, "body", doc.Body)
}

func TestDecode_ErrorLine(t *testing.T) {
	_, err := Decode("title: ok\ntags: [a, b\nnext: x\n")

	var yerr *Error
	require.True(t, errors.As(err, &yerr))
	assert.Positive(t, yerr.Line)
	assert.Contains(t, yerr.Error(), "line")
}
