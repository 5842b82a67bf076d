package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/thoreinstein/matter/internal/config"
	"github.com/thoreinstein/matter/internal/logging"
	"github.com/thoreinstein/matter/internal/pipeline"
)

func init() {
	color.NoColor = true
}

// testContext returns a context carrying a logger that writes to t.
func testContext(t *testing.T) context.Context {
	t.Helper()
	return logging.NewContext(context.Background(), logging.ForTest(t))
}

// withConfig installs c as the loaded configuration for the test.
func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	old, oldErr := cfg, configLoadErr
	cfg, configLoadErr = c, nil
	t.Cleanup(func() { cfg, configLoadErr = old, oldErr })
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatChooser(t *testing.T) {
	c := config.Default()
	c.Extensions = map[string]string{".mdx": "toml"}
	withConfig(t, c)

	choose, err := formatChooser("")
	if err != nil {
		t.Fatal(err)
	}
	if got := choose("a.mdx"); got != pipeline.FormatTOML {
		t.Errorf("choose(a.mdx) = %q, want toml", got)
	}
	if got := choose("a.md"); got != pipeline.FormatYAML {
		t.Errorf("choose(a.md) = %q, want yaml", got)
	}

	choose, err = formatChooser("json")
	if err != nil {
		t.Fatal(err)
	}
	if got := choose("a.toml"); got != pipeline.FormatJSON {
		t.Errorf("explicit format ignored: %q", got)
	}

	if _, err := formatChooser("ini"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestOutputFormat(t *testing.T) {
	withConfig(t, config.Default())

	tests := []struct {
		flag    string
		want    string
		wantErr bool
	}{
		{"", "json", false},
		{"YAML", "yaml", false},
		{"toml", "toml", false},
		{"auto", "", true},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := outputFormat(tt.flag)
		if (err != nil) != tt.wantErr {
			t.Errorf("outputFormat(%q) error = %v, wantErr %v", tt.flag, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("outputFormat(%q) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	c := config.Default()
	c.Workers = 3
	withConfig(t, c)

	if got := workerCount(0); got != 3 {
		t.Errorf("workerCount(0) = %d, want 3", got)
	}
	if got := workerCount(8); got != 8 {
		t.Errorf("workerCount(8) = %d, want 8", got)
	}
}
