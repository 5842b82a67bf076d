package commands

import (
	"context"
	"slices"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/logging"
	"github.com/thoreinstein/matter/internal/pipeline"
	"github.com/thoreinstein/matter/pkg/item"
)

var outputFormats = []string{"json", "yaml", "toml"}

// formatChooser returns the function that picks the parse format for a
// path. An empty flag means the configured default_format.
func formatChooser(flag string) (func(path string) pipeline.Format, error) {
	if flag == "" {
		flag = cfg.DefaultFormat
	}
	f, err := pipeline.ParseFormat(flag)
	if err != nil {
		return nil, errors.NewUserError(err, "Use --format toml, yaml, json or auto")
	}
	overrides := cfg.Extensions
	return func(path string) pipeline.Format {
		return pipeline.Resolve(f, path, overrides)
	}, nil
}

// outputFormat validates an --output or --to value. An empty flag means
// the configured output format.
func outputFormat(flag string) (string, error) {
	if flag == "" {
		flag = cfg.Output
	}
	f, err := pipeline.ParseFormat(flag)
	if err != nil || !slices.Contains(outputFormats, string(f)) {
		return "", errors.NewUserError(errors.Wrapf(errors.ErrUnknownFormat, "%q", flag), "Use json, yaml or toml")
	}
	return string(f), nil
}

// workerCount returns flag when set, else the configured worker count.
func workerCount(flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Workers
}

// loadDocument reads path and parses its frontmatter as format.
func loadDocument(ctx context.Context, path string, format pipeline.Format) (*item.Item, error) {
	parse, err := pipeline.ParserFor(format)
	if err != nil {
		return nil, errors.NewUserError(err, "")
	}
	it, err := item.Read(path)
	if err != nil {
		return nil, errors.NewSystemError(err, "Check that the file exists and is readable")
	}
	if err := parse(it); err != nil {
		return nil, errors.NewUserError(errors.Wrapf(err, "%s: %s frontmatter", path, format), "Run: matter check "+path)
	}
	logging.FromContext(ctx).Debug("parsed document", "path", path, "format", format)
	return it, nil
}
