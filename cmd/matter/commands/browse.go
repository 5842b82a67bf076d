package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/pipeline"
	"github.com/thoreinstein/matter/internal/translate"
)

var browseFormat string

func init() {
	browseCmd.Flags().StringVarP(&browseFormat, "format", "f", "",
		"frontmatter format: toml, yaml, json, auto (default from config)")
	rootCmd.AddCommand(browseCmd)
}

var browseCmd = &cobra.Command{
	Use:   "browse [file|glob|dir]...",
	Short: "Pick a document interactively",
	Long: `Open a fuzzy finder over documents with a preview of their parsed
metadata. The chosen path is printed, so browse composes with other
commands. Without arguments the current directory is searched.`,
	Example: `  matter browse content/
  $EDITOR "$(matter browse)"`,
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		return runBrowse(c.Context(), c.OutOrStdout(), args, fuzzyFind)
	},
}

// finder picks one entry and returns its index.
type finder func(entries []browseEntry) (int, error)

// browseEntry is one document offered by browse.
type browseEntry struct {
	Path    string
	Summary string
	Preview string
}

func fuzzyFind(entries []browseEntry) (int, error) {
	return fuzzyfinder.Find(
		entries,
		func(i int) string {
			return entries[i].Summary
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return entries[i].Preview
		}),
	)
}

func runBrowse(ctx context.Context, w io.Writer, patterns []string, find finder) error {
	choose, err := formatChooser(browseFormat)
	if err != nil {
		return err
	}
	paths, err := pipeline.Expand(patterns)
	if err != nil {
		return errors.NewUserError(err, "")
	}
	results, err := pipeline.ParseFiles(ctx, paths, choose, pipeline.Options{Workers: cfg.Workers})
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	entries := browseEntries(results)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return nil
	}

	idx, err := find(entries)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive browse failed")
	}
	fmt.Fprintln(w, entries[idx].Path)
	return nil
}

const previewBodyLines = 10

func browseEntries(results []pipeline.Result) []browseEntry {
	entries := make([]browseEntry, 0, len(results))
	for _, r := range results {
		e := browseEntry{Path: r.Path, Summary: r.Path}
		var sb strings.Builder

		switch {
		case r.Err != nil:
			e.Summary += " (error)"
			fmt.Fprintf(&sb, "%s frontmatter error:\n%v\n", r.Format, r.Err)
		case r.Item != nil:
			if title, ok := pipeline.Field(r.Item, "title"); ok {
				e.Summary = fmt.Sprintf("%v  %s", title, r.Path)
			}
			if md, ok := pipeline.Lookup(r.Item); ok {
				meta, err := translate.Encode(md.Value, "yaml")
				if err != nil {
					meta = []byte(err.Error() + "\n")
				}
				fmt.Fprintf(&sb, "Format: %s\n\n%s", md.Format, meta)
			} else {
				sb.WriteString("No frontmatter\n")
			}
			sb.WriteString("\n")
			sb.WriteString(headLines(r.Item.Body, previewBodyLines))
		}

		e.Preview = sb.String()
		entries = append(entries, e)
	}
	return entries
}

func headLines(s string, n int) string {
	lines := strings.SplitAfterN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "")
}
