package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/paths"
	"github.com/thoreinstein/matter/internal/translate"
)

var (
	genDocDir    string
	genDocFormat string
)

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for documentation")
	genDocCmd.Flags().StringVarP(&genDocFormat, "format", "f", "yaml", "frontmatter format of the pages: toml, yaml, json")
	rootCmd.AddCommand(genDocCmd)
}

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return runGenDoc(c.OutOrStdout(), genDocDir, genDocFormat)
	},
}

func runGenDoc(w io.Writer, dir, format string) error {
	if dir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "Use --dir <path>")
	}
	f, err := outputFormat(format)
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(dir, 0o755); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating output directory"), "")
	}

	var prependErr error
	prepend := func(filename string) string {
		s, err := pageFrontmatter(filename, f)
		if err != nil && prependErr == nil {
			prependErr = err
		}
		return s
	}
	if err := doc.GenMarkdownTreeCustom(rootCmd, dir, prepend, linkHandler); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "generating markdown"), "")
	}
	if prependErr != nil {
		return prependErr
	}

	fmt.Fprintf(w, "Documentation generated in %s\n", paths.Display(dir))
	return nil
}

// pageFrontmatter returns the frontmatter block for a generated page,
// e.g. matter_backup_list.md gets the title "matter backup list".
func pageFrontmatter(filename, format string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(base, "_", " ")

	meta := map[string]any{
		"title":       title,
		"description": "Reference for " + title,
		"draft":       false,
	}
	data, err := translate.Frontmatter(meta, format, "")
	if err != nil {
		return "", errors.Wrapf(err, "frontmatter for %s", filename)
	}
	return string(data), nil
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
