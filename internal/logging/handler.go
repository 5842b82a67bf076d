package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler is a slog.Handler for terminals: one line per record with a
// short time, the level, the message and key=value pairs. Colors are used
// only when the writer supports them.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string // group names joined with dots, ending in a dot

	colored bool
	dim     *color.Color
	key     *color.Color
}

// NewHandler creates a new terminal handler.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		opts:    *opts,
		out:     out,
		mu:      &sync.Mutex{},
		colored: SupportsColor(out),
		dim:     color.New(color.FgHiBlack),
		key:     color.New(color.FgCyan),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle writes r as one line.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		sb.WriteString(h.paint(h.dim, r.Time.Format(time.Kitchen)))
		sb.WriteByte(' ')
	}
	fmt.Fprintf(&sb, "%-5s ", h.paint(levelColor(r.Level), levelName(r.Level)))
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *Handler) appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(sb, prefix, ga)
		}
		return
	}
	fmt.Fprintf(sb, " %s=%v", h.paint(h.key, prefix+a.Key), a.Value.Any())
}

func (h *Handler) paint(c *color.Color, s string) string {
	if !h.colored || c == nil {
		return s
	}
	return c.Sprint(s)
}

// WithAttrs returns a new Handler with the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := *h
	newH.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newH.attrs = append(newH.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		newH.attrs = append(newH.attrs, a)
	}
	return &newH
}

// WithGroup returns a new Handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.prefix = h.prefix + name + "."
	return &newH
}

func levelName(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}

func levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgRed, color.Bold)
	case l >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case l >= slog.LevelInfo:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgMagenta)
	}
}
