package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forgebee/forgebee/internal/errors"
	"github.com/forgebee/forgebee/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <run-dir>",
	Short: "Follow a run directory, printing artifacts as they are written",
	Long: `watch streams file events from a generation run directory. Run it in a
second terminal to follow stage artifacts as the pipeline produces them.
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	w, err := watch.New(args[0])
	if err != nil {
		return errors.Wrap(err, errors.Argument,
			"pass the run directory printed by 'forgebee generate'")
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", args[0])
	for ev := range w.Events(ctx) {
		fmt.Fprintf(out, "%s  %-8s %s\n", ev.Time.Format("15:04:05"), ev.Op, ev.Path)
	}
	return nil
}
