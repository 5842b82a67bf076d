package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/backup"
	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/paths"
)

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "output in JSON format")
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "List and restore document backups",
	Long: `matter convert --write saves each document before rewriting it.
Backups live in $XDG_DATA_HOME/matter/backups, or in MATTER_BACKUP_DIR
when it is set. The newest 20 are kept.`,
	Example: `  matter backup list
  matter backup restore`,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups, newest first",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return runBackupList(c.OutOrStdout(), backup.NewManager(), backupListJSON)
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore documents from a backup",
	Long: `Copy every document in a backup back to where it came from,
overwriting the current file. Without an ID the newest backup is used.`,
	Example: `  matter backup restore
  matter backup restore 20261017T101500

See Also: matter backup list`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return runBackupRestore(c.OutOrStdout(), backup.NewManager(), id)
	},
}

// backupInfo is one backup in list --json output.
type backupInfo struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Files         []string  `json:"files"`
	MatterVersion string    `json:"matter_version"`
}

func runBackupList(w io.Writer, mgr *backup.Manager, asJSON bool) error {
	manifests, err := mgr.List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.NewSystemError(errors.Wrap(err, "listing backups"), "")
	}

	if asJSON {
		out := make([]backupInfo, 0, len(manifests))
		for _, m := range manifests {
			out = append(out, backupInfo{
				ID:            m.ID,
				CreatedAt:     m.CreatedAt,
				Files:         originalPaths(m),
				MatterVersion: m.MatterVersion,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(manifests) == 0 {
		fmt.Fprintf(w, "No backups in %s\n", paths.Display(mgr.Dir()))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tFILES")
	for _, m := range manifests {
		files := originalPaths(m)
		first := paths.Display(files[0])
		if len(files) > 1 {
			first = fmt.Sprintf("%s (+%d)", first, len(files)-1)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			color.GreenString(m.ID),
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			first)
	}
	return tw.Flush()
}

func runBackupRestore(w io.Writer, mgr *backup.Manager, id string) error {
	if id == "" {
		manifests, err := mgr.List()
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(err, "Backups are made by matter convert --write")
			}
			return errors.NewSystemError(errors.Wrap(err, "listing backups"), "")
		}
		id = manifests[0].ID
	}

	manifest, err := mgr.Restore(id)
	switch {
	case errors.Is(err, backup.ErrNoBackupsFound):
		return errors.NewUserError(err, "Run: matter backup list")
	case errors.Is(err, backup.ErrBackupCorrupted):
		return errors.NewSystemError(err, "The backup was modified after it was taken")
	case err != nil:
		return errors.NewSystemError(err, "")
	}

	for _, f := range manifest.Files {
		fmt.Fprintf(w, "Restored %s\n", paths.Display(f.OriginalPath))
	}
	return nil
}

func originalPaths(m backup.Manifest) []string {
	out := make([]string, len(m.Files))
	for i, f := range m.Files {
		out[i] = f.OriginalPath
	}
	return out
}
