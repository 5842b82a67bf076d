package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG config home.
const AppName = "matter"

// ConfigFileName is the name of the user config file.
const ConfigFileName = "config.yaml"

// DefaultDirPerm is the permission for directories matter creates.
const DefaultDirPerm = 0o700

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns matter's directory under the config home.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the path of the user config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}

// BackupDir returns where document backups are stored. MATTER_BACKUP_DIR
// overrides it.
func BackupDir() string {
	if dir := os.Getenv("MATTER_BACKUP_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(DataHome(), AppName, "backups")
}

// EnsureDir creates path and its parents. A zero perm means DefaultDirPerm.
// It returns nil when the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Display shortens p for output by replacing the home directory with ~.
func Display(p string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if p == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(p, home+string(filepath.Separator)); ok {
		return filepath.Join("~", rest)
	}
	return p
}
