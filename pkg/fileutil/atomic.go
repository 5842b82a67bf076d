// Package fileutil provides size-limited reads and atomic writes for
// documents and configuration files.
package fileutil

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/matter/internal/errors"
)

// DefaultFilePerm is the mode of files written without an explicit one.
const DefaultFilePerm os.FileMode = 0o644

// AtomicWriteFile replaces path with data. The data goes to a temp file in
// the same directory, which is synced, given perm and renamed over path,
// so readers see either the old or the new content. The parent directory
// must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".matter-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// AtomicWriteYAMLWithPerm marshals v as YAML and writes it with
// AtomicWriteFile. The output always ends with a line break.
func AtomicWriteYAMLWithPerm(path string, v any, perm os.FileMode) (err error) {
	// yaml.Marshal panics on some unsupported types.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if n := len(data); n > 0 && data[n-1] != '\n' {
		data = append(data, '\n')
	}
	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteYAML is AtomicWriteYAMLWithPerm with DefaultFilePerm.
func AtomicWriteYAML(path string, v any) error {
	return AtomicWriteYAMLWithPerm(path, v, DefaultFilePerm)
}
