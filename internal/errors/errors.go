// Package errors provides structured CLI errors: a category, a message, and
// actionable remediation steps rendered with color when the terminal
// supports it.
package errors

import "fmt"

// Category classifies what went wrong.
type Category int

const (
	// Argument errors come from invalid or missing command arguments.
	Argument Category = iota
	// Configuration errors come from invalid or missing configuration.
	Configuration
	// Provider errors come from the generation backend (quota, timeout,
	// rejected requests).
	Provider
	// Runtime errors occur during pipeline execution.
	Runtime
)

func (c Category) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Provider:
		return "Provider Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a categorized error with remediation guidance.
type CLIError struct {
	Category    Category
	Message     string
	Remediation []string
	// Usage shows correct command syntax, set for argument errors.
	Usage string
	// Err is the underlying cause, if any.
	Err error
}

func (e *CLIError) Error() string { return e.Message }

func (e *CLIError) Unwrap() error { return e.Err }

// NewArgumentError builds an argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage builds an argument error carrying usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewConfigError builds a configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: message, Remediation: remediation}
}

// NewProviderError builds a provider error.
func NewProviderError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Provider, Message: message, Remediation: remediation}
}

// NewRuntimeError builds a runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: message, Remediation: remediation}
}

// Wrap attaches a category and remediation to an existing error.
func Wrap(err error, category Category, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Err: err}
}

// Wrapf attaches a category and a contextual message to an existing error.
func Wrapf(err error, category Category, format string, args ...any) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category: category,
		Message:  fmt.Sprintf("%s: %v", fmt.Sprintf(format, args...), err),
		Err:      err,
	}
}
