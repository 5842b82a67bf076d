package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/backup"
	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/logging"
	"github.com/thoreinstein/matter/internal/pipeline"
	"github.com/thoreinstein/matter/internal/translate"
	"github.com/thoreinstein/matter/pkg/fileutil"
)

var (
	convertFrom  string
	convertTo    string
	convertWrite bool
	convertNoBak bool
)

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "",
		"current frontmatter format: toml, yaml, json, auto (default from config)")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target format: toml, yaml, json")
	convertCmd.Flags().BoolVarP(&convertWrite, "write", "w", false, "rewrite the file instead of printing")
	convertCmd.Flags().BoolVar(&convertNoBak, "no-backup", false, "do not back up the file before --write")
	_ = convertCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Re-encode frontmatter in another format",
	Long: `Parse a document's frontmatter and write it back in another format,
keeping the body byte for byte.

Without --write the converted document is printed. With --write the file
is replaced atomically and keeps its permissions. The original is backed
up first unless --no-backup is given; see matter backup. Comments and key order
in the original frontmatter are not preserved.`,
	Example: `  # Preview a YAML to TOML conversion
  matter convert post.md --to toml

  # Convert in place
  matter convert post.md --from yaml --to json --write`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runConvert(c.Context(), c.OutOrStdout(), args[0])
	},
}

func runConvert(ctx context.Context, w io.Writer, path string) error {
	choose, err := formatChooser(convertFrom)
	if err != nil {
		return err
	}
	if convertTo == "" {
		return errors.NewUserError(errors.New("missing target format"), "Use --to toml, yaml or json")
	}
	to, err := outputFormat(convertTo)
	if err != nil {
		return err
	}

	from := choose(path)
	it, err := loadDocument(ctx, path, from)
	if err != nil {
		return err
	}
	md, ok := pipeline.Lookup(it)
	if !ok {
		return errors.NewUserError(errors.Newf("%s has no frontmatter", path), "")
	}

	data, err := translate.Frontmatter(md.Value, to, it.Body)
	if err != nil {
		return errors.NewUserError(errors.Wrapf(err, "converting %s to %s", path, to), "")
	}

	if !convertWrite {
		_, err := w.Write(data)
		return errors.Wrap(err, "writing output")
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.NewSystemError(errors.Wrapf(err, "stat %s", path), "")
	}
	logger := logging.FromContext(ctx)
	if !convertNoBak {
		mgr := backup.NewManager()
		manifest, err := mgr.Backup([]string{path})
		if err != nil {
			return errors.NewSystemError(errors.Wrap(err, "backing up original"), "Use --no-backup to skip the backup")
		}
		logger.Debug("backed up original", "id", manifest.ID, "dir", mgr.Dir())
		if err := mgr.Prune(); err != nil {
			logger.Warn("pruning backups failed", "error", err)
		}
	}
	if err := fileutil.AtomicWriteFile(path, data, info.Mode().Perm()); err != nil {
		return errors.NewSystemError(err, "Check that the directory is writable")
	}
	logger.Info("converted frontmatter", "path", path, "from", from, "to", to)
	return nil
}
