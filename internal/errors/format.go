package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel    = color.New(color.FgRed, color.Bold).SprintFunc()
	categoryLabel = color.New(color.FgYellow).SprintFunc()
	fixLabel      = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel    = color.New(color.FgCyan, color.Bold).SprintFunc()
	bulletMark    = color.New(color.FgGreen).SprintFunc()
)

// Format renders a CLIError for the terminal. fatih/color handles NO_COLOR
// and non-tty detection, so the same call works everywhere.
func Format(err *CLIError) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]: %s\n", errorLabel("Error"), categoryLabel(err.Category.String()), err.Message)

	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s %s\n", usageLabel("Usage:"), err.Usage)
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", fixLabel("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&b, "  %s %s\n", bulletMark("•"), step)
		}
	}
	return b.String()
}

// Fprint writes the formatted error to w.
func Fprint(w io.Writer, err *CLIError) {
	fmt.Fprint(w, Format(err))
}
