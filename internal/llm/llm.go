// Package llm wraps an OpenAI-compatible chat completion API behind the
// planner.Completer interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps an OpenAI-compatible API client. It is constructed once at
// process start and reused across requests.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a completion client. The API key is required; its absence is a
// configuration error the caller should treat as fatal at startup.
func New(baseURL, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("completion API key is required")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}, nil
}

// Complete sends a single-turn prompt and returns the completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("completion API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Ping checks that the endpoint is reachable and the key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
