// Package logging sets up log/slog for the matter CLI.
//
// Text output goes through [Handler], which colors levels and keys when
// the destination is a terminal. JSON output uses slog's JSON handler.
// [MultiHandler] fans records out to several handlers, which is how
// --log-file adds a JSON log beside the console output.
//
// Commands get their logger from the context:
//
//	logger := logging.FromContext(cmd.Context())
//	logger.Debug("parsed", "path", it.Path, "format", "toml")
//
// Tests use [ForTest] so log lines show up only for failing tests or -v.
package logging
