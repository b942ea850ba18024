// Package groq completes text prompts through Groq's OpenAI-compatible
// chat completions endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel   = "openai/gpt-oss-20b"
	DefaultBaseURL = "https://api.groq.com/openai/v1"
)

type Client struct {
	model  string
	client *openai.Client
}

func New(apiKey, model, baseURL string) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	cfg.BaseURL = baseURL
	return &Client{model: model, client: openai.NewClientWithConfig(cfg)}
}

func (c *Client) Name() string { return "groq" }

// Complete sends prompt as a single user message and returns the first
// choice's content untrimmed.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("groq: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
