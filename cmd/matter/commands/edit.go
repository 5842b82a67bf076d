package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/editor"
	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/watch"
)

var editFormat string

func init() {
	editCmd.Flags().StringVarP(&editFormat, "format", "f", "",
		"frontmatter format: toml, yaml, json, auto (default from config)")
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Open a document in your editor, then check it",
	Long: `Open a document in $MATTER_EDITOR, $EDITOR or $VISUAL (falling back to
nano, then vi) and parse its frontmatter once the editor exits. The file
need not exist yet.`,
	Example: `  matter edit content/post.md
  EDITOR="code --wait" matter edit post.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		streams := editor.Streams{In: os.Stdin, Out: c.OutOrStdout(), Err: c.ErrOrStderr()}
		return runEdit(c.Context(), c.OutOrStdout(), args[0], streams)
	},
}

func runEdit(ctx context.Context, w io.Writer, path string, streams editor.Streams) error {
	choose, err := formatChooser(editFormat)
	if err != nil {
		return err
	}
	if err := editor.Open(ctx, path, streams); err != nil {
		return errors.NewSystemError(err, "Set EDITOR to an installed editor")
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "%s: not saved\n", path)
		return nil
	}
	fmt.Fprintln(w, recheck(watch.Event{Path: path}, choose(path)))
	return nil
}
