package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, Provider, "check that the endpoint is reachable")

	require.NotNil(t, err)
	assert.Equal(t, Provider, err.Category)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Error())
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, Wrapf(nil, Runtime, "context"))
}

func TestWrapf_AddsContext(t *testing.T) {
	err := Wrapf(errors.New("boom"), Runtime, "running stage %s", "backend")
	assert.Equal(t, "running stage backend: boom", err.Message)
}

func TestFormat(t *testing.T) {
	err := NewArgumentErrorWithUsage(
		"requirement text is required",
		"forgebee generate \"<requirement>\"",
		"pass the requirement as the first argument",
	)

	out := Format(err)
	assert.Contains(t, out, "Argument Error")
	assert.Contains(t, out, "requirement text is required")
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "forgebee generate")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "first argument")
}

func TestFormat_Nil(t *testing.T) {
	assert.Empty(t, Format(nil))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "Configuration Error", Configuration.String())
	assert.Equal(t, "Provider Error", Provider.String())
	assert.Equal(t, "Error", Category(99).String())
}
