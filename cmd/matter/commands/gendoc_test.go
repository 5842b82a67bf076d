package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/matter/internal/config"
	"github.com/thoreinstein/matter/internal/pipeline"
	"github.com/thoreinstein/matter/pkg/frontmatter/toml"
	"github.com/thoreinstein/matter/pkg/frontmatter/yaml"
	"github.com/thoreinstein/matter/pkg/item"
)

func TestRunGenDoc(t *testing.T) {
	withConfig(t, config.Default())
	dir := filepath.Join(t.TempDir(), "docs")

	var buf bytes.Buffer
	require.NoError(t, runGenDoc(&buf, dir, "yaml"))
	assert.Contains(t, buf.String(), "Documentation generated in ")

	data, err := os.ReadFile(filepath.Join(dir, "matter_backup_list.md"))
	require.NoError(t, err)

	doc := item.New("", string(data))
	require.NoError(t, yaml.Parse(doc))
	title, ok := pipeline.Field(doc, "title")
	require.True(t, ok)
	assert.Equal(t, "matter backup list", title)
	assert.Contains(t, doc.Body, "## matter backup list")

	_, err = os.Stat(filepath.Join(dir, "matter_gen-doc.md"))
	assert.True(t, os.IsNotExist(err), "hidden command must not be documented")
}

func TestPageFrontmatter_TOML(t *testing.T) {
	s, err := pageFrontmatter("/out/matter_check.md", "toml")
	require.NoError(t, err)

	doc := item.New("", s)
	require.NoError(t, toml.Parse(doc))
	draft, ok := pipeline.Field(doc, "draft")
	require.True(t, ok)
	assert.Equal(t, false, draft)
	title, _ := pipeline.Field(doc, "title")
	assert.Equal(t, "matter check", title)
}

func TestRunGenDoc_Errors(t *testing.T) {
	withConfig(t, config.Default())
	assert.Error(t, runGenDoc(&bytes.Buffer{}, "", "yaml"))
	assert.Error(t, runGenDoc(&bytes.Buffer{}, t.TempDir(), "ini"))
}

func TestLinkHandler(t *testing.T) {
	assert.Equal(t, "/docs/reference/matter_check/", linkHandler("matter_check.md"))
}
