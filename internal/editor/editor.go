// Package editor launches the user's text editor on a document.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/matter/internal/errors"
)

// Streams are the terminal streams handed to the editor process.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Open runs the editor on path and waits for it to exit.
func Open(ctx context.Context, path string, s Streams) error {
	c := Command(ctx, path)
	c.Stdin, c.Stdout, c.Stderr = s.In, s.Out, s.Err
	if err := c.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", c.Path)
	}
	return nil
}

// Command builds the editor invocation for path. The editor setting may
// carry arguments, as in "code --wait".
func Command(ctx context.Context, path string) *exec.Cmd {
	fields := strings.Fields(detectEditor())
	args := append(fields[1:], path)
	return exec.CommandContext(ctx, fields[0], args...)
}

// detectEditor picks the editor command.
// Fallback chain: $MATTER_EDITOR → $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	for _, env := range []string{"MATTER_EDITOR", "EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
