package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const claudeBackendName = "claude"

// ClaudeCLIOptions configures the Claude Code CLI backend.
type ClaudeCLIOptions struct {
	// Command is the CLI binary, default "claude".
	Command string
	// Args are inserted before the prompt flag, e.g. a model selection.
	Args []string
}

// ClaudeCLI generates content by invoking the Claude Code CLI in print mode
// (claude [args...] -p <prompt>) and capturing stdout.
type ClaudeCLI struct {
	opts ClaudeCLIOptions

	// runCommand is swapped in tests.
	runCommand func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// NewClaudeCLI builds the backend with defaults filled in.
func NewClaudeCLI(opts ClaudeCLIOptions) *ClaudeCLI {
	if opts.Command == "" {
		opts.Command = "claude"
	}
	return &ClaudeCLI{opts: opts, runCommand: runCLI}
}

func (c *ClaudeCLI) Name() string { return claudeBackendName }

// Generate invokes the CLI once. MaxTokens is advisory only; the CLI has no
// response size flag, so the budget is appended to the prompt as guidance.
func (c *ClaudeCLI) Generate(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.MaxTokens > 0 {
		prompt = fmt.Sprintf("%s\n\nKeep the response under approximately %d tokens.", prompt, req.MaxTokens)
	}

	args := append(append([]string{}, c.opts.Args...), "-p", prompt)
	stdout, stderr, err := c.runCommand(ctx, c.opts.Command, args...)
	if err != nil {
		return "", &Error{
			Kind:    classifyCLIError(ctx, stderr, err),
			Backend: claudeBackendName,
			Err:     fmt.Errorf("%s command failed: %w: %s", c.opts.Command, err, firstLine(stderr)),
		}
	}

	out := strings.TrimSpace(string(stdout))
	if out == "" {
		return "", &Error{
			Kind:    KindMalformed,
			Backend: claudeBackendName,
			Err:     fmt.Errorf("%s produced no output", c.opts.Command),
		}
	}
	return out, nil
}

func runCLI(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func classifyCLIError(ctx context.Context, stderr []byte, err error) ErrorKind {
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if ctx.Err() == context.Canceled {
		return KindTimeout
	}

	msg := strings.ToLower(string(stderr))
	if strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota") ||
		strings.Contains(msg, "429") || strings.Contains(msg, "overloaded") {
		return KindQuota
	}
	return KindMalformed
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
