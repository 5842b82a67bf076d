package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// New returns an error with a stack trace attached.
func New(msg string) error { return crdb.New(msg) }

// Newf is New with formatting.
func Newf(format string, args ...any) error { return crdb.Newf(format, args...) }

// Wrap annotates err with msg. It returns nil if err is nil.
func Wrap(err error, msg string) error { return crdb.Wrap(err, msg) }

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...any) error { return crdb.Wrapf(err, format, args...) }

// Mark tags err so that Is(err, reference) reports true without changing
// its message.
func Mark(err error, reference error) error { return crdb.Mark(err, reference) }

// Is reports whether any error in err's chain matches reference.
func Is(err, reference error) bool { return crdb.Is(err, reference) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return crdb.As(err, target) }

// Join combines errs into one error, dropping nils.
func Join(errs ...error) error { return crdb.Join(errs...) }

// WithHint attaches a user-facing hint to err.
func WithHint(err error, hint string) error { return crdb.WithHint(err, hint) }

// FlattenHints returns the hints attached anywhere in err's chain.
func FlattenHints(err error) string { return crdb.FlattenHints(err) }
