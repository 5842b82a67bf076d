package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/matter/internal/config"
	"github.com/thoreinstein/matter/internal/errors"
)

func TestRunConfigShow(t *testing.T) {
	c := config.Default()
	c.Workers = 3
	withConfig(t, c)

	var buf bytes.Buffer
	require.NoError(t, runConfigShow(&buf))

	out := buf.String()
	assert.Contains(t, out, "default_format: auto")
	assert.Contains(t, out, "workers: 3")
}

func TestRunConfigShow_LoadError(t *testing.T) {
	withConfig(t, config.Default())
	configLoadErr = errors.New("bad version")

	var buf bytes.Buffer
	require.NoError(t, runConfigShow(&buf))
	assert.Contains(t, buf.String(), "# config error: bad version")
	assert.Contains(t, buf.String(), "# showing defaults")
}

func TestRunConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	var buf bytes.Buffer
	require.NoError(t, runConfigInit(&buf, path, false))
	assert.Contains(t, buf.String(), "Wrote ")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, *config.Default(), got)
}

func TestRunConfigInit_Exists(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "version: 1\nworkers: 9\n")

	err := runConfigInit(&bytes.Buffer{}, path, false)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "workers: 9", "file must be left alone without --force")

	require.NoError(t, runConfigInit(&bytes.Buffer{}, path, true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "workers: 9")
}
