package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/matter/cmd"
	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/paths"
	"github.com/thoreinstein/matter/pkg/fileutil"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is how many backups Prune keeps by default.
const DefaultRetentionCount = 20

const (
	manifestName = "manifest.yaml"
	idLayout     = "20060102T150405"
)

var (
	// ErrNoBackupsFound indicates the backup root holds no backups, or not
	// the one asked for.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a backed up file no longer matches the
	// hash in its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one backup. It is stored as manifest.yaml in the
// backup directory.
type Manifest struct {
	Version       int       `yaml:"version"`
	CreatedAt     time.Time `yaml:"created_at"`
	Files         []File    `yaml:"files"`
	MatterVersion string    `yaml:"matter_version"`

	// ID is the backup directory name. It is filled in on load.
	ID string `yaml:"-"`
}

// File is one backed up document.
type File struct {
	OriginalPath string      `yaml:"original_path"`
	RelPath      string      `yaml:"rel_path"`
	SHA256       string      `yaml:"sha256"`
	Mode         fs.FileMode `yaml:"mode"`
}

// Manager creates, lists and restores backups under one root directory.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets how many backups Prune keeps. Values below one
// are ignored.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager returns a Manager rooted at paths.BackupDir unless
// WithBackupDir says otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup root.
func (m *Manager) Dir() string {
	return m.rootDir
}

// Backup copies the given files into a new backup and returns its
// manifest. Paths that do not exist are skipped; directories are an error.
func (m *Manager) Backup(files []string) (*Manifest, error) {
	if len(files) == 0 {
		return nil, errors.New("at least one path is required")
	}
	if err := paths.EnsureDir(m.rootDir, 0); err != nil {
		return nil, errors.Wrap(err, "creating backup root")
	}

	created := m.now().UTC()
	id, dir, err := m.reserve(created)
	if err != nil {
		return nil, err
	}

	var backed []File
	for _, p := range files {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", p)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		if info.IsDir() {
			_ = os.RemoveAll(dir)
			return nil, errors.Newf("%s is a directory", p)
		}

		rel := relPath(abs)
		hash, mode, err := copyFile(abs, filepath.Join(dir, rel))
		if err != nil {
			_ = os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up %s", p)
		}
		backed = append(backed, File{OriginalPath: abs, RelPath: rel, SHA256: hash, Mode: mode})
	}

	if len(backed) == 0 {
		_ = os.RemoveAll(dir)
		return nil, errors.New("no files to back up")
	}

	manifest := &Manifest{
		Version:       ManifestVersion,
		CreatedAt:     created,
		Files:         backed,
		MatterVersion: cmd.Version,
		ID:            id,
	}
	if err := fileutil.AtomicWriteYAML(filepath.Join(dir, manifestName), manifest); err != nil {
		_ = os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}
	return manifest, nil
}

// reserve creates the directory for a new backup taken at t.
func (m *Manager) reserve(t time.Time) (id, dir string, err error) {
	base := t.Format(idLayout)
	for n := 0; ; n++ {
		id = base
		if n > 0 {
			id = base + "-" + strconv.Itoa(n)
		}
		dir = filepath.Join(m.rootDir, id)
		err = os.Mkdir(dir, paths.DefaultDirPerm)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
}

// Restore copies every file of backup id back to its original path after
// verifying its hash.
func (m *Manager) Restore(id string) (*Manifest, error) {
	manifest, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(m.rootDir, id)

	for _, f := range manifest.Files {
		src := filepath.Join(dir, f.RelPath)
		hash, err := hashFile(src)
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup of %s", f.OriginalPath)
		}
		if hash != f.SHA256 {
			return nil, errors.Wrapf(ErrBackupCorrupted, "%s hash mismatch", f.RelPath)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup of %s", f.OriginalPath)
		}
		if err := os.MkdirAll(filepath.Dir(f.OriginalPath), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", f.OriginalPath)
		}
		if err := fileutil.AtomicWriteFile(f.OriginalPath, data, f.Mode.Perm()); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", f.OriginalPath)
		}
	}
	return manifest, nil
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Manifest, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(entry.Name())
		if err != nil {
			// Not a backup, or an interrupted one.
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return manifests, nil
}

// Prune removes all but the newest retention-count backups.
func (m *Manager) Prune() error {
	manifests, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}
	for i := m.retentionCount; i < len(manifests); i++ {
		if err := os.RemoveAll(filepath.Join(m.rootDir, manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}
	return nil
}

// Get loads the manifest of backup id.
func (m *Manager) Get(id string) (*Manifest, error) {
	if id == "" || id != filepath.Base(id) {
		return nil, errors.Newf("invalid backup ID %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.rootDir, id, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst, creating dst's parents, and returns the
// SHA256 of the content and the source mode.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = info.Mode()

	if err := os.MkdirAll(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
		return "", 0, errors.Wrap(err, "creating parent directory")
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		_ = out.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := out.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}
	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// relPath maps an absolute path to a relative one for storage inside a
// backup. Colons are dropped so Windows drive letters stay valid names.
func relPath(abs string) string {
	clean := filepath.Clean(abs)
	if vol := filepath.VolumeName(clean); vol != "" {
		clean = strings.TrimSuffix(vol, ":") + clean[len(vol):]
	}
	clean = strings.ReplaceAll(clean, ":", "")
	return strings.TrimLeft(clean, string(filepath.Separator))
}
