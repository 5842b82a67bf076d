package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/logging"
	"github.com/thoreinstein/matter/internal/pipeline"
	"github.com/thoreinstein/matter/internal/validator"
)

var (
	checkFormat   string
	checkJSON     bool
	checkFailFast bool
	checkWorkers  int
	checkRequire  bool
)

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "",
		"frontmatter format: toml, yaml, json, auto (default from config)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output results as JSON")
	checkCmd.Flags().BoolVar(&checkFailFast, "fail-fast", false, "stop at the first failing document")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 0, "parallel parsers (default from config)")
	checkCmd.Flags().BoolVar(&checkRequire, "require", false, "treat documents without frontmatter as errors")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <file|glob|dir>...",
	Short: "Report frontmatter syntax errors",
	Long: `Parse the frontmatter of every matching document and report syntax
errors with their line and column inside the frontmatter block. TOML
frontmatter reports every broken section, not just the first.

Directories are searched for .md, .markdown and .mdx files. Documents
without frontmatter are reported as warnings, or errors with --require.

Exit codes:
  0 - All documents parsed (warnings OK)
  1 - At least one document failed`,
	Example: `  # Check a content tree
  matter check content/

  # CI usage
  matter check 'docs/**/*.md' --json --require`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runCheck(c.Context(), c.OutOrStdout(), args)
	},
}

func runCheck(ctx context.Context, w io.Writer, patterns []string) error {
	choose, err := formatChooser(checkFormat)
	if err != nil {
		return err
	}
	paths, err := pipeline.Expand(patterns)
	if err != nil {
		return errors.NewUserError(err, "Quote glob patterns so the shell does not expand them")
	}

	opts := pipeline.Options{Workers: workerCount(checkWorkers), FailFast: checkFailFast}
	results, runErr := pipeline.ParseFiles(ctx, paths, choose, opts)
	if runErr != nil && ctx.Err() != nil {
		return errors.NewSystemError(runErr, "")
	}

	result := &validator.Result{}
	for _, r := range results {
		if r.Skipped {
			continue
		}
		result.Checked++
		if r.Err != nil {
			result.AddParseError(r.Path, string(r.Format), r.Err)
			continue
		}
		if _, ok := pipeline.Lookup(r.Item); !ok {
			if checkRequire {
				result.AddError(r.Path, "no frontmatter block")
			} else {
				result.AddWarning(r.Path, "no frontmatter block")
			}
		}
	}
	result.Sort()

	logging.FromContext(ctx).Info("check finished",
		"documents", len(paths), "checked", result.Checked, "failed", len(result.FailedPaths()))

	format := validator.FormatText
	if checkJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(w, format).Report(result); err != nil {
		return err
	}

	if result.HasErrors() {
		return errors.NewExitError(errors.ErrCheckFailed, errors.ExitUser)
	}
	return nil
}
