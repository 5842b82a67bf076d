package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/pkg/fileutil"
	"github.com/thoreinstein/matter/pkg/frontmatter"
)

var splitJSON bool

func init() {
	splitCmd.Flags().BoolVar(&splitJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(splitCmd)
}

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Show the frontmatter and body of a document",
	Long: `Split a document into its raw frontmatter text and its body without
parsing the frontmatter.

A document has frontmatter when its first line is "---" (trailing spaces
allowed) and a later line is "---" as well. Everything between the two is
the frontmatter; everything after the closing line is the body.`,
	Example: `  # Show both parts
  matter split post.md

  # Machine-readable output
  matter split post.md --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runSplit(c.OutOrStdout(), args[0], splitJSON)
	},
}

// splitResult is the JSON output of split.
type splitResult struct {
	Path           string `json:"path"`
	HasFrontmatter bool   `json:"has_frontmatter"`
	Frontmatter    string `json:"frontmatter"`
	Body           string `json:"body"`
}

func runSplit(w io.Writer, path string, asJSON bool) error {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return errors.NewSystemError(errors.Wrapf(err, "reading %s", path), "Check that the file exists and is readable")
	}

	meta, body := frontmatter.Split(string(data))
	result := splitResult{
		Path:           path,
		HasFrontmatter: meta != "",
		Frontmatter:    meta,
		Body:           body,
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(result), "encoding JSON")
	}

	if !result.HasFrontmatter {
		fmt.Fprintln(w, "# no frontmatter")
	} else {
		fmt.Fprintln(w, "# frontmatter")
		fmt.Fprint(w, meta)
	}
	fmt.Fprintln(w, "# body")
	fmt.Fprint(w, body)
	return nil
}
