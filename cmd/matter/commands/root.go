// Package commands implements the CLI commands for matter.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/cmd"
	"github.com/thoreinstein/matter/internal/config"
	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// cfg is the loaded configuration, or the defaults when loading failed.
var cfg = config.Default()

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// logCloser closes the --log-file handle after the command runs.
var logCloser io.Closer

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml or ~/.config/matter/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("matter version {{.Version}}\n")

	// Errors are printed by Main so exit codes and hints stay in one place.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loaded, err := config.Load(configFile)
	configLoadErr = err
	if err == nil {
		cfg = loaded
	} else {
		cfg = config.Default()
	}
}

var rootCmd = &cobra.Command{
	Use:   "matter",
	Short: "Split, parse and convert document frontmatter",
	Long: `matter works with the metadata block at the top of text documents:

  ---
  title = "Hello"
  ---
  Body text.

The block is delimited by lines of exactly three dashes and may hold TOML,
YAML or JSON. matter splits it from the body, parses it, reports syntax
errors with positions, converts it between formats and renders the body.

With --format auto (the default) the format follows the file extension:
.toml is TOML, .json is JSON and anything else is YAML. The extensions
setting in the config file adds more mappings.`,
	Example: `  # Check every document under content/
  matter check 'content/**/*.md'

  # Show the parsed metadata of one file as YAML
  matter parse post.md --output yaml

  # Convert YAML frontmatter to TOML in place
  matter convert post.md --to toml --write

  See Also: matter check, matter parse, matter config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if skipConfigCheck(cmd) {
			return nil
		}
		if configLoadErr != nil {
			return errors.NewConfigError(configLoadErr)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// skipConfigCheck lists commands that must work with a broken config.
func skipConfigCheck(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "config", "init", "show":
		return true
	}
	return false
}

// setupLogging configures the logger based on verbosity flags and stores
// it in the command context.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		if v == 0 {
			switch os.Getenv("MATTER_DEBUG") {
			case "1", "true":
				v = 2
			case "2":
				v = 3
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{Level: level}

	var primary slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primary = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case logging.FormatText:
		primary = logging.NewHandler(cmd.ErrOrStderr(), opts)
	default:
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat), "Use --log-format text or --log-format json")
	}

	handler := primary
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewSystemError(errors.Wrap(err, "opening log file"), "Check that the log directory exists and is writable")
		}
		logCloser = f
		handler = logging.NewMultiHandler(primary, slog.NewJSONHandler(f, opts))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	if f := configFileUsed(); f != "" {
		logger.Debug("loaded config", "file", f)
	}
	return nil
}

func configFileUsed() string {
	if configLoadErr != nil {
		return ""
	}
	return config.FileUsed()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
	return err
}

// Main runs the CLI, prints any error to stderr and returns the exit code.
func Main(stderr io.Writer) int {
	err := Execute()
	if err == nil {
		return errors.ExitSuccess
	}
	printError(stderr, err)
	return errors.CodeOf(err)
}

// printError writes err and its suggestion. Check failures were already
// reported in full, so they print nothing more.
func printError(w io.Writer, err error) {
	if errors.Is(err, errors.ErrCheckFailed) {
		return
	}
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("Hint:"), exitErr.Suggestion)
	}
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("Hint:"), hint)
	}
}
