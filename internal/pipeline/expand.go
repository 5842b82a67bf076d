package pipeline

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/thoreinstein/matter/internal/errors"
)

// DocumentPattern selects documents when a directory is given to Expand.
const DocumentPattern = "**/*.{md,markdown,mdx}"

// Expand turns command line arguments into a sorted list of distinct file
// paths. Arguments with glob syntax, including "**", are matched against
// the file system and must match at least one file. Directories expand to
// the documents below them. Other arguments pass through unchanged, so a
// missing file is reported when it is read.
func Expand(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		matches, err := expandOne(p)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func expandOne(p string) ([]string, error) {
	if !hasMeta(p) {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			return []string{filepath.Clean(p)}, nil
		}
		matches, err := doublestar.Glob(os.DirFS(p), DocumentPattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s", p)
		}
		for i, m := range matches {
			matches[i] = filepath.Join(p, filepath.FromSlash(m))
		}
		return matches, nil
	}

	if !doublestar.ValidatePathPattern(p) {
		return nil, errors.Wrapf(doublestar.ErrBadPattern, "%q", p)
	}
	matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "expanding %s", p)
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no files match %s", p)
	}
	return matches, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
