package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/logging"
	"github.com/thoreinstein/matter/internal/pipeline"
	"github.com/thoreinstein/matter/internal/translate"
)

var (
	parseFormat  string
	parseOutput  string
	parseBody    bool
	parseWorkers int
)

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "",
		"frontmatter format: toml, yaml, json, auto (default from config)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "",
		"output format: json, yaml, toml (default from config)")
	parseCmd.Flags().BoolVar(&parseBody, "body", false, "include the document body")
	parseCmd.Flags().IntVar(&parseWorkers, "workers", 0, "parallel parsers (default from config)")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <file|glob>...",
	Short: "Parse frontmatter and print the metadata",
	Long: `Parse the frontmatter of one or more documents and print the metadata
re-encoded as JSON, YAML or TOML.

For a single document the output is that document's record. For several
it is a "documents" list. Documents without frontmatter have no metadata
entry. Any parse failure makes the command exit with status 1 after the
other documents are printed.`,
	Example: `  # Parse one file
  matter parse post.md

  # Parse every TOML-fronted post and print YAML
  matter parse 'posts/**/*.md' --format toml --output yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runParse(c.Context(), c.OutOrStdout(), args)
	},
}

func runParse(ctx context.Context, w io.Writer, patterns []string) error {
	choose, err := formatChooser(parseFormat)
	if err != nil {
		return err
	}
	out, err := outputFormat(parseOutput)
	if err != nil {
		return err
	}
	paths, err := pipeline.Expand(patterns)
	if err != nil {
		return errors.NewUserError(err, "Quote glob patterns so the shell does not expand them")
	}

	results, err := pipeline.ParseFiles(ctx, paths, choose, pipeline.Options{Workers: workerCount(parseWorkers)})
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	logger := logging.FromContext(ctx)
	records := make([]any, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("parse failed", "path", r.Path, "format", r.Format, "error", r.Err)
			continue
		}
		records = append(records, parseRecord(r, parseBody))
	}

	var doc any
	if len(paths) == 1 && len(records) == 1 {
		doc = records[0]
	} else {
		doc = map[string]any{"documents": records}
	}
	if len(records) > 0 {
		data, err := translate.Encode(doc, out)
		if err != nil {
			return errors.NewUserError(err, "TOML output needs table metadata; try --output json")
		}
		if _, err := w.Write(data); err != nil {
			return errors.Wrap(err, "writing output")
		}
	}

	if failed > 0 {
		return errors.NewUserError(errors.Newf("%d of %d document(s) failed to parse", failed, len(results)), "Run: matter check for positions")
	}
	return nil
}

// parseRecord builds the output entry for one parsed document.
func parseRecord(r pipeline.Result, withBody bool) map[string]any {
	rec := map[string]any{"path": r.Path}
	if md, ok := pipeline.Lookup(r.Item); ok {
		rec["format"] = string(md.Format)
		if md.Value != nil {
			rec["metadata"] = md.Value
		}
	}
	if withBody {
		rec["body"] = r.Item.Body
	}
	return rec
}
