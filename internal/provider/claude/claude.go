// Package claude classifies waste photos with Anthropic's Messages API.
package claude

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

const DefaultModel = "claude-3-5-sonnet-latest"

// maxTokens leaves room for the classification JSON and a short preamble.
const maxTokens = 1024

type Client struct {
	model  string
	client *anthropic.Client
}

// New builds a client; baseURL may be empty to use the public API.
func New(apiKey, model, baseURL string) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &Client{
		model:  model,
		client: anthropic.NewClient(strings.TrimSpace(apiKey), opts...),
	}
}

func (c *Client) Name() string { return "claude" }

func (c *Client) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages:  buildMessages(prompt, image, mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}
	text := resp.GetFirstContentText()
	if text == "" {
		return "", errors.New("claude: empty response")
	}
	return text, nil
}

func buildMessages(prompt string, image []byte, mimeType string) []anthropic.Message {
	return []anthropic.Message{{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				normaliseMIME(mimeType),
				base64.StdEncoding.EncodeToString(image),
			)),
			anthropic.NewTextMessageContent(prompt),
		},
	}}
}

func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
