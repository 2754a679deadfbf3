// Package llm wraps an OpenAI-compatible chat completion API used to
// generate test questions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pavelanni/testprep/internal/llm/prompts"
)

const (
	// placeholderKey is the value shipped in example env files; treat it the
	// same as a missing credential.
	placeholderKey = "your_openrouter_api_key_here"
	// minKeyLength guards against obviously truncated credentials.
	minKeyLength = 20

	requestTimeout = 60 * time.Second
	temperature    = 0.7
	maxTokens      = 4000
)

// ConfigError reports a missing or unusable provider credential. It is
// detected before any network call is made.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "LLM client not configured: " + e.Reason
}

// TransientError reports a network-level failure (connection refused, DNS,
// timeout). The whole request may be retried by the caller.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "LLM request failed: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

// UpstreamError reports a non-2xx response or a malformed envelope from the
// provider. StatusCode is zero when no HTTP status applies.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("LLM provider error: status %d: %s", e.StatusCode, e.Detail)
	}
	return "LLM provider error: " + e.Detail
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api    *openai.Client
	apiKey string
	model  string
}

// New creates a new LLM client for the given OpenAI-compatible endpoint.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(config),
		apiKey: apiKey,
		model:  modelName,
	}
}

// MaskKey returns a form of the credential safe for logging.
func MaskKey(key string) string {
	switch {
	case key == "":
		return "(empty)"
	case len(key) > 12:
		return key[:8] + "..." + key[len(key)-4:]
	default:
		return "***"
	}
}

// checkCredential validates the API key shape before any network attempt.
func (c *Client) checkCredential() error {
	switch {
	case c.apiKey == "":
		return &ConfigError{Reason: "API key is not set"}
	case c.apiKey == placeholderKey:
		return &ConfigError{Reason: "API key is still set to the placeholder value"}
	case len(c.apiKey) < minKeyLength:
		return &ConfigError{Reason: fmt.Sprintf("API key is too short (%d characters)", len(c.apiKey))}
	}
	return nil
}

// Complete sends a single chat completion request and returns the raw
// assistant text, not yet parsed as JSON. The call is bounded by a 60-second
// timeout. No retries are performed here; retry policy belongs to the caller.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.checkCredential(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	slog.Info("sending generation request", "model", c.model)
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Detail: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &UpstreamError{StatusCode: reqErr.HTTPStatusCode, Detail: reqErr.Error()}
		}
		return "", &TransientError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Detail: "malformed response shape: no choices"}
	}

	content := resp.Choices[0].Message.Content
	slog.Debug("LLM response received", "model", c.model, "length", len(content))
	return content, nil
}
