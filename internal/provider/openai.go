package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const openAIBackendName = "openai"

// OpenAIOptions configures the OpenAI-compatible backend.
type OpenAIOptions struct {
	// APIKey authenticates the client. Required.
	APIKey string
	// Model is the chat model name, e.g. "gpt-4o-mini".
	Model string
	// BaseURL overrides the API endpoint for OpenAI-compatible servers
	// (vLLM, Ollama, llama.cpp). Empty uses the official endpoint.
	BaseURL string
	// SystemPrompt is prepended as the system message when non-empty.
	SystemPrompt string
}

// OpenAI generates content through the OpenAI chat completions API or any
// server that speaks the same protocol.
type OpenAI struct {
	client *openai.Client
	opts   OpenAIOptions
}

// NewOpenAI builds the backend. The API key and model must be set.
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai backend requires an API key")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("openai backend requires a model name")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), opts: opts}, nil
}

func (o *OpenAI) Name() string { return openAIBackendName }

// Generate runs one chat completion and returns the first choice's content.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if o.opts.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.opts.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	apiReq := openai.ChatCompletionRequest{
		Model:    o.opts.Model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		apiReq.MaxCompletionTokens = req.MaxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", &Error{Kind: classifyOpenAIError(err), Backend: openAIBackendName, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{
			Kind:    KindMalformed,
			Backend: openAIBackendName,
			Err:     fmt.Errorf("response contained no choices"),
		}
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return KindQuota
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return KindTimeout
		}
		if code, ok := apiErr.Code.(string); ok && strings.Contains(code, "quota") {
			return KindQuota
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return KindQuota
	}

	return KindMalformed
}
