package logging

import (
	"io"
	"log/slog"
	"os"
	"testing"
)

// Format specifies the output format for log messages.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// LevelTrace sits below debug for per-document detail.
const LevelTrace = slog.LevelDebug - 4

// Config holds the configuration for creating a new logger.
type Config struct {
	// Level sets the minimum log level.
	Level slog.Level
	// Format selects text or JSON output. Unknown values mean text.
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger with the given configuration.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(NewHandler(output, opts))
}

// Default returns a warn-level text logger on stderr, which keeps the CLI
// quiet unless asked otherwise.
func Default() *slog.Logger {
	return New(Config{Level: slog.LevelWarn, Format: FormatText})
}

// NewDiscard creates a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromVerbosity maps the count of -v flags to a level:
// none is warn, -v is info, -vv is debug, -vvv and up is trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// testWriter adapts testing.T to io.Writer.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	msg := string(p)
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	w.t.Log(msg)
	return len(p), nil
}

// ForTest creates a trace-level logger that writes through t.Log.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{
		Level:  LevelTrace,
		Format: FormatText,
		Output: &testWriter{t: t},
	})
}
