package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/matter/internal/errors"
)

// Format specifies the output format for reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes check results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) reportJSON(result *Result) error {
	out := *result
	if out.Issues == nil {
		out.Issues = []Issue{}
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(out), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	errs := result.Errors()
	warnings := result.Warnings()

	if len(errs) == 0 && len(warnings) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ %d document(s) checked, no problems", result.Checked))
		return nil
	}

	summary := []string{}
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s) in %d document(s)", len(errs), len(result.FailedPaths())))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	fmt.Fprintf(r.out, "Checked %d document(s): %s\n\n", result.Checked, strings.Join(summary, ", "))

	if len(errs) > 0 {
		fmt.Fprintln(r.out, "Errors:")
		r.printIssues(errs, color.FgRed)
		fmt.Fprintln(r.out)
	}
	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		r.printIssues(warnings, color.FgYellow)
		fmt.Fprintln(r.out)
	}

	return nil
}

// printIssues writes issues grouped under their document path:
//
//	docs/a.md
//	  • line 3, column 7: expected '=' [toml]
func (r *Reporter) printIssues(issues []Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()
	dim := color.New(color.FgHiBlack)

	last := ""
	for _, i := range issues {
		if i.Path != last || last == "" {
			fmt.Fprintf(r.out, "  %s\n", printer(i.Path))
			last = i.Path
		}

		var sb strings.Builder
		sb.WriteString("    • ")
		if i.Line > 0 {
			fmt.Fprintf(&sb, "line %d", i.Line)
			if i.Column > 0 {
				fmt.Fprintf(&sb, ", column %d", i.Column)
			}
			sb.WriteString(": ")
		}
		sb.WriteString(i.Message)
		if i.Format != "" {
			sb.WriteString(dim.Sprintf(" [%s]", i.Format))
		}
		fmt.Fprintln(r.out, sb.String())
	}
}
