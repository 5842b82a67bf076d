package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/matter/internal/config"
	"github.com/thoreinstein/matter/internal/editor"
)

// fakeEditor installs a shell script editor that writes content to its
// argument.
func fakeEditor(t *testing.T, content string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}
	dir := t.TempDir()
	writeFile(t, dir, "content", content)
	script := writeFile(t, dir, "ed.sh", "#!/bin/sh\ncat '"+filepath.Join(dir, "content")+"' > \"$1\"\n")
	require.NoError(t, os.Chmod(script, 0o755))
	t.Setenv("MATTER_EDITOR", script)
}

func TestRunEdit(t *testing.T) {
	withConfig(t, config.Default())
	editFormat = ""
	fakeEditor(t, "---\ntitle: New\n---\nbody\n")

	path := filepath.Join(t.TempDir(), "post.md")
	var buf bytes.Buffer
	require.NoError(t, runEdit(testContext(t), &buf, path, editor.Streams{}))
	assert.Equal(t, path+": ok, yaml, 1 key(s)\n", buf.String())
}

func TestRunEdit_ReportsSyntaxError(t *testing.T) {
	withConfig(t, config.Default())
	editFormat = "toml"
	t.Cleanup(func() { editFormat = "" })
	fakeEditor(t, "---\ntitle = \n---\n")

	path := filepath.Join(t.TempDir(), "post.md")
	var buf bytes.Buffer
	require.NoError(t, runEdit(testContext(t), &buf, path, editor.Streams{}))
	assert.Contains(t, buf.String(), path+": toml error:")
}

func TestRunEdit_MissingEditor(t *testing.T) {
	withConfig(t, config.Default())
	editFormat = ""
	t.Setenv("MATTER_EDITOR", filepath.Join(t.TempDir(), "nope"))

	err := runEdit(testContext(t), &bytes.Buffer{}, "post.md", editor.Streams{})
	assert.Error(t, err)
}
