package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/logging"
	"github.com/thoreinstein/matter/internal/pipeline"
	"github.com/thoreinstein/matter/internal/watch"
	"github.com/thoreinstein/matter/pkg/item"
)

var (
	watchFormat string
	watchDelay  time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "",
		"frontmatter format: toml, yaml, json, auto (default from config)")
	watchCmd.Flags().DurationVar(&watchDelay, "delay", watch.DefaultDelay, "quiet period before a change is checked")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir|file>...",
	Short: "Re-check documents as they change",
	Long: `Watch files and directory trees and parse each document again whenever
it is written. Every result is printed as one line. Directories are
watched recursively for .md, .markdown and .mdx files.

Stop with Ctrl-C.`,
	Example: `  matter watch content/
  matter watch post.md --format toml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, c.OutOrStdout(), args)
	},
}

func runWatch(ctx context.Context, w io.Writer, paths []string) error {
	choose, err := formatChooser(watchFormat)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	watcher, err := watch.New(logger, func(_ context.Context, ev watch.Event) {
		fmt.Fprintln(w, recheck(ev, choose(ev.Path)))
	}, watch.WithDelay(watchDelay))
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	if err := watcher.Add(paths...); err != nil {
		return errors.NewUserError(err, "Check that the paths exist")
	}

	logger.Info("watching", "paths", paths)
	return watcher.Run(ctx)
}

// recheck parses the document behind ev and describes the outcome.
func recheck(ev watch.Event, format pipeline.Format) string {
	if ev.Removed {
		return fmt.Sprintf("%s: removed", ev.Path)
	}
	parse, err := pipeline.ParserFor(format)
	if err != nil {
		return fmt.Sprintf("%s: %v", ev.Path, err)
	}
	it, err := item.Read(ev.Path)
	if err != nil {
		return fmt.Sprintf("%s: %v", ev.Path, err)
	}
	if err := parse(it); err != nil {
		return fmt.Sprintf("%s: %s error: %v", ev.Path, format, err)
	}
	md, ok := pipeline.Lookup(it)
	if !ok {
		return fmt.Sprintf("%s: ok, no frontmatter", ev.Path)
	}
	if m, isMap := md.Value.(map[string]any); isMap {
		return fmt.Sprintf("%s: ok, %s, %d key(s)", ev.Path, md.Format, len(m))
	}
	return fmt.Sprintf("%s: ok, %s", ev.Path, md.Format)
}
