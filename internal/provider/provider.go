// Package provider abstracts the generative content provider behind a narrow
// contract: a prompt and a size budget in, raw text out. The pipeline depends
// only on this interface and never on a concrete backend, so retry and
// degradation logic can be driven with fakes in tests.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures.
type ErrorKind string

const (
	// KindQuota means the provider rejected the call for rate or quota reasons.
	KindQuota ErrorKind = "quota_exceeded"
	// KindTimeout means the call exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindMalformed means the provider rejected the request itself.
	KindMalformed ErrorKind = "malformed_request"
)

// Error is the typed failure returned by every backend. All kinds are
// treated as transient by the pipeline and feed the same retry path.
type Error struct {
	Kind    ErrorKind
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Backend, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a provider *Error from err, or nil.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

// Request describes one generation call.
type Request struct {
	// Prompt is the full prompt text for this call.
	Prompt string
	// MaxTokens bounds the response size. Zero means the backend default.
	MaxTokens int
}

// Provider is the generative content provider contract.
type Provider interface {
	// Name identifies the backend for logs and error messages.
	Name() string
	// Generate produces raw text for the request. Failures are returned as
	// *Error; the caller decides whether and how to retry.
	Generate(ctx context.Context, req Request) (string, error)
}
