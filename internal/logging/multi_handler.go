package logging

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/matter/internal/errors"
)

// MultiHandler sends each record to every handler that accepts its level.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler combines handlers. Nil handlers are skipped.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	hs := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return &MultiHandler{handlers: hs}
}

// Enabled reports whether any handler accepts level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes a clone of r to each enabled handler and joins any errors.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *MultiHandler) each(fn func(slog.Handler) slog.Handler) *MultiHandler {
	hs := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		hs[i] = fn(handler)
	}
	return &MultiHandler{handlers: hs}
}
