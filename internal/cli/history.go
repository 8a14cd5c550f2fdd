package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgebee/forgebee/internal/config"
	"github.com/forgebee/forgebee/internal/errors"
	"github.com/forgebee/forgebee/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{WarningWriter: cmd.ErrOrStderr()})
	if err != nil {
		return errors.Wrap(err, errors.Configuration)
	}

	h, err := history.Load(cfg.StateDir)
	if err != nil {
		return errors.Wrap(err, errors.Runtime,
			fmt.Sprintf("check that %s is readable", cfg.StateDir))
	}

	entries := h.Recent(historyLimit)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No generation runs recorded yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-9s %3d files  %-10s %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Status, e.FilesWritten, e.Duration, e.Requirement)
		fmt.Fprintf(out, "    %s\n", e.OutputDir)
	}
	return nil
}
