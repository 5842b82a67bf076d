package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/matter/internal/config"
	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/paths"
	"github.com/thoreinstein/matter/pkg/fileutil"
)

var (
	configInitPath  string
	configInitForce bool
)

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "where to write the file (default: user config dir)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect matter configuration",
	Long: `Inspect and create matter's configuration file.

The file is config.yaml in the current directory or in
~/.config/matter/. Environment variables with the MATTER_ prefix
override it, for example MATTER_WORKERS=4.

Without a subcommand, shows the effective configuration.`,
	Example: `  matter config show
  matter config init

See Also: matter check`,
	RunE: func(c *cobra.Command, _ []string) error {
		return runConfigShow(c.OutOrStdout())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration in effect after defaults, the config file and
environment variables are combined. If the file failed to load, the
problem is printed above the defaults.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return runConfigShow(c.OutOrStdout())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return runConfigInit(c.OutOrStdout(), configInitPath, configInitForce)
	},
}

func runConfigShow(w io.Writer) error {
	switch {
	case configLoadErr != nil:
		fmt.Fprintf(w, "# config error: %v\n# showing defaults\n", configLoadErr)
	case config.FileUsed() != "":
		fmt.Fprintf(w, "# file: %s\n", paths.Display(config.FileUsed()))
	default:
		fmt.Fprintln(w, "# no config file, showing defaults")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing config")
}

func runConfigInit(w io.Writer, path string, force bool) error {
	if path == "" {
		path = paths.ConfigFile()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return errors.NewUserError(errors.Newf("%s already exists", path), "Use --force to overwrite it")
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
	}
	if err := fileutil.AtomicWriteYAML(path, config.Default()); err != nil {
		return errors.NewSystemError(err, "Check that the config directory is writable")
	}
	fmt.Fprintf(w, "Wrote %s\n", paths.Display(path))
	return nil
}
