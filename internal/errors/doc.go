// Package errors carries the error conventions of the matter CLI.
//
// It re-exports the constructors and inspection helpers of
// github.com/cockroachdb/errors so command code imports a single errors
// package, and adds [ExitError], which pairs an error with a process exit
// code and an optional hint for the user:
//
//	err := errors.NewUserError(errors.ErrUnknownFormat, "Use one of: toml, yaml, json")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
//
// Exit codes follow the usual Unix split: [ExitUser] for bad input
// (including frontmatter syntax errors) and [ExitSystem] for I/O failures.
package errors
