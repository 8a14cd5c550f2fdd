package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgebee/forgebee/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "forgebee %s\n", build.Version)
		fmt.Fprintf(out, "  commit: %s\n", build.Commit)
		fmt.Fprintf(out, "  built:  %s\n", build.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
