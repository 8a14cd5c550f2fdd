package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func chatCompletionJSON(content string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": %q}}]
	}`, content)
}

func TestNewOpenAI_Validation(t *testing.T) {
	_, err := NewOpenAI(OpenAIOptions{Model: "gpt-4o-mini"})
	assert.Error(t, err)

	_, err = NewOpenAI(OpenAIOptions{APIKey: "key"})
	assert.Error(t, err)
}

func TestOpenAI_Generate(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionJSON(`{"tables": []}`))
	})

	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	out, err := p.Generate(context.Background(), Request{Prompt: "design", MaxTokens: 4000})
	require.NoError(t, err)
	assert.Equal(t, `{"tables": []}`, out)
}

func TestOpenAI_Generate_Quota(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limit exceeded", "type": "requests", "code": "rate_limit_exceeded"}}`)
	})

	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Prompt: "design"})
	pe := AsError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindQuota, pe.Kind)
	assert.Equal(t, "openai", pe.Backend)
}

func TestOpenAI_Generate_Timeout(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionJSON("late"))
	})

	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = p.Generate(ctx, Request{Prompt: "design"})
	pe := AsError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindTimeout, pe.Kind)
}

func TestOpenAI_Generate_NoChoices(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`)
	})

	p, err := NewOpenAI(OpenAIOptions{APIKey: "test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Prompt: "design"})
	pe := AsError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindMalformed, pe.Kind)
}

func fakeCLI(stdout, stderr string, err error) func(context.Context, string, ...string) ([]byte, []byte, error) {
	return func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte(stdout), []byte(stderr), err
	}
}

func TestClaudeCLI_Generate(t *testing.T) {
	p := NewClaudeCLI(ClaudeCLIOptions{})
	assert.Equal(t, "claude", p.Name())

	var gotName string
	var gotArgs []string
	p.runCommand = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotName = name
		gotArgs = args
		return []byte("generated code\n"), nil, nil
	}

	out, err := p.Generate(context.Background(), Request{Prompt: "build it", MaxTokens: 8000})
	require.NoError(t, err)
	assert.Equal(t, "generated code", out)
	assert.Equal(t, "claude", gotName)
	require.GreaterOrEqual(t, len(gotArgs), 2)
	assert.Equal(t, "-p", gotArgs[len(gotArgs)-2])
	assert.Contains(t, gotArgs[len(gotArgs)-1], "build it")
	assert.Contains(t, gotArgs[len(gotArgs)-1], "8000 tokens")
}

func TestClaudeCLI_Generate_QuotaFromStderr(t *testing.T) {
	p := NewClaudeCLI(ClaudeCLIOptions{Command: "claude-custom"})
	p.runCommand = fakeCLI("", "Error: rate limit reached, retry later", errors.New("exit status 1"))

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	pe := AsError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindQuota, pe.Kind)
	assert.Equal(t, "claude", pe.Backend)
}

func TestClaudeCLI_Generate_Timeout(t *testing.T) {
	p := NewClaudeCLI(ClaudeCLIOptions{})
	p.runCommand = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{Prompt: "x"})
	pe := AsError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindTimeout, pe.Kind)
}

func TestClaudeCLI_Generate_EmptyOutput(t *testing.T) {
	p := NewClaudeCLI(ClaudeCLIOptions{})
	p.runCommand = fakeCLI("   \n", "", nil)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	pe := AsError(err)
	require.NotNil(t, pe)
	assert.Equal(t, KindMalformed, pe.Kind)
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := error(&Error{Kind: KindMalformed, Backend: "openai", Err: inner})

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "malformed_request")
	assert.Nil(t, AsError(errors.New("plain")))
}
