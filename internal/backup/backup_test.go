package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/matter/internal/errors"
)

// fixedClock returns a now func that always reports t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBackup_Collision(t *testing.T) {
	backupDir := t.TempDir()
	src := writeDoc(t, t.TempDir(), "post.md", "---\na: 1\n---\n")

	m := NewManager(WithBackupDir(backupDir))
	m.now = fixedClock(time.Date(2026, 10, 17, 10, 15, 0, 0, time.UTC))

	first, err := m.Backup([]string{src})
	if err != nil {
		t.Fatalf("first backup failed: %v", err)
	}
	second, err := m.Backup([]string{src})
	if err != nil {
		t.Fatalf("second backup failed: %v", err)
	}

	if first.ID != "20261017T101500" {
		t.Errorf("first ID = %q", first.ID)
	}
	if second.ID != "20261017T101500-1" {
		t.Errorf("second ID = %q, want suffixed", second.ID)
	}
}

func TestBackupRestore(t *testing.T) {
	backupDir := t.TempDir()
	src := writeDoc(t, t.TempDir(), "post.md", "---\ntitle: Original\n---\nbody\n")

	m := NewManager(WithBackupDir(backupDir))
	manifest, err := m.Backup([]string{src, filepath.Join(t.TempDir(), "missing.md")})
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if len(manifest.Files) != 1 {
		t.Fatalf("backed up %d files, want 1", len(manifest.Files))
	}
	if manifest.Files[0].Mode.Perm() != 0o640 {
		t.Errorf("mode = %v, want 0640", manifest.Files[0].Mode.Perm())
	}

	if err := os.WriteFile(src, []byte("---\ntitle = 'Changed'\n---\nbody\n"), 0o640); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Restore(manifest.ID); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	got, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "---\ntitle: Original\n---\nbody\n" {
		t.Errorf("restored content = %q", got)
	}
	info, err := os.Stat(src)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("restored mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestRestore_Corrupted(t *testing.T) {
	backupDir := t.TempDir()
	src := writeDoc(t, t.TempDir(), "post.md", "original")

	m := NewManager(WithBackupDir(backupDir))
	manifest, err := m.Backup([]string{src})
	if err != nil {
		t.Fatal(err)
	}

	stored := filepath.Join(backupDir, manifest.ID, manifest.Files[0].RelPath)
	if err := os.WriteFile(stored, []byte("tampered"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = m.Restore(manifest.ID)
	if !errors.Is(err, ErrBackupCorrupted) {
		t.Fatalf("Restore() error = %v, want ErrBackupCorrupted", err)
	}
	got, _ := os.ReadFile(src)
	if string(got) != "original" {
		t.Errorf("source changed to %q", got)
	}
}

func TestBackup_Errors(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))

	if _, err := m.Backup(nil); err == nil {
		t.Error("expected error for no paths")
	}
	if _, err := m.Backup([]string{filepath.Join(t.TempDir(), "nope.md")}); err == nil {
		t.Error("expected error when nothing exists")
	}
	if _, err := m.Backup([]string{t.TempDir()}); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("expected directory error, got %v", err)
	}

	entries, err := os.ReadDir(m.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed backups left %d directories behind", len(entries))
	}
}

func TestListAndPrune(t *testing.T) {
	backupDir := t.TempDir()
	src := writeDoc(t, t.TempDir(), "post.md", "x")

	m := NewManager(WithBackupDir(backupDir), WithRetentionCount(2))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 4 {
		m.now = fixedClock(start.Add(time.Duration(i) * time.Hour))
		if _, err := m.Backup([]string{src}); err != nil {
			t.Fatal(err)
		}
	}
	// A stray directory is not a backup.
	if err := os.Mkdir(filepath.Join(backupDir, "junk"), 0o700); err != nil {
		t.Fatal(err)
	}

	list, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 4 {
		t.Fatalf("List() returned %d backups, want 4", len(list))
	}
	if list[0].ID != "20260101T030000" {
		t.Errorf("newest = %q", list[0].ID)
	}

	if err := m.Prune(); err != nil {
		t.Fatal(err)
	}
	list, err = m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[1].ID != "20260101T020000" {
		t.Errorf("after prune: %v", list)
	}
}

func TestList_Empty(t *testing.T) {
	m := NewManager(WithBackupDir(filepath.Join(t.TempDir(), "none")))
	if _, err := m.List(); !errors.Is(err, ErrNoBackupsFound) {
		t.Errorf("List() error = %v, want ErrNoBackupsFound", err)
	}
	if err := m.Prune(); err != nil {
		t.Errorf("Prune() on empty root = %v", err)
	}
}

func TestGet_InvalidID(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	for _, id := range []string{"", "../etc", "a/b"} {
		if _, err := m.Get(id); err == nil {
			t.Errorf("Get(%q) expected error", id)
		}
	}
	if _, err := m.Get("20260101T000000"); !errors.Is(err, ErrNoBackupsFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
}

func TestRelPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/usr/local/doc.md", filepath.FromSlash("usr/local/doc.md")},
		{"/a/../b/c.md", filepath.FromSlash("b/c.md")},
		{"/notes/file:name.md", filepath.FromSlash("notes/filename.md")},
	}
	for _, tt := range tests {
		got := relPath(filepath.FromSlash(tt.input))
		if got != tt.want {
			t.Errorf("relPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if strings.Contains(got, ":") {
			t.Errorf("relPath(%q) = %q contains colon", tt.input, got)
		}
	}
}
