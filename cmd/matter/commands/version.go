package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of matter.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		runVersion(c.OutOrStdout())
	},
}

func runVersion(w io.Writer) {
	fmt.Fprintf(w, "matter version %s\n", cmd.Version)
	fmt.Fprintf(w, "  commit: %s\n", cmd.Commit)
	fmt.Fprintf(w, "  built:  %s\n", cmd.Date)
}
