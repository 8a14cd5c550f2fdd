// Package cli implements the forgebee commands: generate, history, watch,
// config, and version.
package cli

import (
	goerrors "errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgebee/forgebee/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "forgebee",
	Short: "Generate multi-file application scaffolds from plain English",
	Long: `forgebee turns a free-text software requirement into a working
application scaffold by driving a generative provider through four stages:
architecture design, backend, frontend, and test suite.

Each stage retries with progressively simplified requirements; non-fatal
failures degrade the output instead of aborting the run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCode is set by commands that finish with a non-error outcome that
// still needs a distinct code (degraded runs).
var exitCode = ExitSuccess

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *errors.CLIError
		if goerrors.As(err, &cliErr) {
			errors.Fprint(os.Stderr, cliErr)
			if cliErr.Category == errors.Argument {
				return ExitInvalidArguments
			}
			return ExitFailure
		}
		errors.Fprint(os.Stderr, errors.Wrap(err, errors.Runtime))
		return ExitFailure
	}
	return exitCode
}
