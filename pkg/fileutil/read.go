package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/matter/internal/errors"
)

// MaxFileSize is the largest document matter reads, 1 MiB.
const MaxFileSize = 1 << 20

// ErrFileTooLarge indicates a file larger than MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads the whole file at path, failing with
// ErrFileTooLarge when it holds more than MaxFileSize bytes.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return readLimited(f, MaxFileSize)
}

// readLimited reads r to the end and fails once more than limit bytes
// arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
