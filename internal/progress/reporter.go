package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/forgebee/forgebee/internal/complexity"
	"github.com/forgebee/forgebee/internal/pipeline"
)

// StageReporter implements pipeline.Reporter. On a TTY it runs a spinner per
// stage and rewrites its suffix per attempt; otherwise it prints plain lines.
type StageReporter struct {
	mu      sync.Mutex
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
}

// NewStageReporter builds a reporter writing to out.
func NewStageReporter(out io.Writer) *StageReporter {
	caps := DetectTerminalCapabilities()
	return &StageReporter{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// StageStarted begins the spinner (or prints a start line) for a stage.
func (r *StageReporter) StageStarted(kind pipeline.StageKind, strategy complexity.Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := fmt.Sprintf("Generating %s (%s)", kind, strategy)
	if !r.caps.IsTTY {
		fmt.Fprintf(r.out, "==> %s\n", label)
		return
	}

	r.spin = spinner.New(spinner.CharSets[r.symbols.SpinnerSet], 100*time.Millisecond,
		spinner.WithWriter(r.out))
	r.spin.Suffix = " " + label
	r.spin.Start()
}

// StageAttempt updates the status line for a retry or chunk attempt.
func (r *StageReporter) StageAttempt(kind pipeline.StageKind, chunk string, attempt, level int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	detail := string(kind)
	if chunk != "" {
		detail = fmt.Sprintf("%s/%s", kind, chunk)
	}
	line := fmt.Sprintf("%s attempt %d", detail, attempt)
	if level > 0 {
		line = fmt.Sprintf("%s (simplification level %d)", line, level)
	}

	if r.spin != nil {
		r.spin.Suffix = " " + line
		return
	}
	if attempt > 1 || chunk != "" {
		fmt.Fprintf(r.out, "    %s\n", line)
	}
}

// StageCompleted stops the spinner and prints the stage outcome.
func (r *StageReporter) StageCompleted(exec pipeline.StageExecution) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.spin != nil {
		r.spin.Stop()
		r.spin = nil
	}

	symbol := r.symbols.Checkmark
	switch exec.Status {
	case pipeline.StatusFailed:
		symbol = r.symbols.Failure
	case pipeline.StatusSkipped:
		symbol = r.symbols.Skipped
	case pipeline.StatusPartial:
		symbol = r.symbols.Checkmark + "?"
	}

	files := len(exec.Manifest.Files)
	if exec.Artifacts != nil && files == 0 {
		files = exec.Artifacts.Len()
	}

	switch {
	case exec.Status == pipeline.StatusSkipped:
		fmt.Fprintf(r.out, "%s %s skipped\n", symbol, exec.Kind)
	case files > 0:
		fmt.Fprintf(r.out, "%s %s: %s (%d files, %d attempts)\n",
			symbol, exec.Kind, exec.Status, files, len(exec.Attempts))
	default:
		fmt.Fprintf(r.out, "%s %s: %s (%d attempts)\n",
			symbol, exec.Kind, exec.Status, len(exec.Attempts))
	}
}
