package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")

	require.NoError(t, AtomicWriteFile(path, []byte("---\na: 1\n---\nbody\n"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "---\na: 1\n---\nbody\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestAtomicWriteFile_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, AtomicWriteFile(path, []byte("new"), 0o600))

	got, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestAtomicWriteFile_DirectoryNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "post.md")

	assert.Error(t, AtomicWriteFile(path, []byte("x"), 0o644))
}

func TestAtomicWriteYAML(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantYAML string
		wantErr  bool
	}{
		{
			name:     "map",
			value:    map[string]any{"default_format": "yaml"},
			wantYAML: "default_format: yaml\n",
		},
		{
			name: "tagged struct",
			value: struct {
				Output string `yaml:"output"`
			}{Output: "json"},
			wantYAML: "output: json\n",
		},
		{
			name:    "unmarshalable channel",
			value:   make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")

			err := AtomicWriteYAML(path, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, _ := os.ReadFile(path)
			assert.Equal(t, tt.wantYAML, string(got))
		})
	}
}
