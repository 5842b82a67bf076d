// Package backup keeps copies of documents before matter rewrites them.
//
// Each backup is a directory named by its ID under the backup root:
//
//	$XDG_DATA_HOME/matter/backups/
//	└── {id}/
//	    ├── manifest.yaml
//	    └── {copied files...}
//
// The manifest records each file's original path, mode and SHA256 hash.
// [Manager.Restore] refuses to copy back a file whose hash no longer
// matches and returns [ErrBackupCorrupted].
//
// IDs are UTC timestamps such as 20261017T101500. Backups taken within the
// same second get a numeric suffix.
package backup
