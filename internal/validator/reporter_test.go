package validator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestReporter_Report(t *testing.T) {
	result := &Result{Checked: 3}
	result.add(Issue{Severity: SeverityError, Path: "a.md", Line: 2, Column: 5, Format: "toml", Message: "expected '='"})
	result.add(Issue{Severity: SeverityError, Path: "a.md", Line: 4, Format: "toml", Message: "unterminated string"})
	result.AddWarning("b.md", "no frontmatter block")

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatText).Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Checked 3 document(s)",
			"2 error(s) in 1 document(s)",
			"1 warning(s)",
			"line 2, column 5: expected '=' [toml]",
			"line 4: unterminated string",
			"no frontmatter block",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
		if n := strings.Count(output, "a.md"); n != 1 {
			t.Errorf("path a.md printed %d times, want once", n)
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatJSON).Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		var decoded Result
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode JSON output: %v", err)
		}
		if decoded.Checked != 3 || len(decoded.Issues) != 3 {
			t.Fatalf("decoded = %+v", decoded)
		}
		if decoded.Issues[2].Severity != SeverityWarning {
			t.Errorf("severity = %v, want warning", decoded.Issues[2].Severity)
		}
		if !strings.Contains(buf.String(), `"severity": "error"`) {
			t.Errorf("severity not encoded by name:\n%s", buf.String())
		}
	})

	t.Run("clean result", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatText).Report(&Result{Checked: 2}); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if !strings.Contains(buf.String(), "2 document(s) checked, no problems") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("clean result json has empty issues", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatJSON).Report(&Result{Checked: 1}); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if !strings.Contains(buf.String(), `"issues": []`) {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("nil result", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatText).Report(nil); err != nil || buf.Len() != 0 {
			t.Errorf("Report(nil) = %v, wrote %q", err, buf.String())
		}
	})
}
