// Package gemini adapts the Google AI Gemini API to the app's vision and
// image-generation ports.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"reciclaje-quiz-service/internal/app"
)

var errClosed = errors.New("gemini client closed")

// DefaultModel both reads photos and draws quiz images.
const DefaultModel = "gemini-2.5-flash-image"

// Client holds one lazily dialed genai client shared by every request.
type Client struct {
	apiKey string
	model  string
	opts   []option.ClientOption

	once   sync.Once
	client *genai.Client
	err    error
}

func New(apiKey, model string, opts ...option.ClientOption) *Client {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
		opts:   opts,
	}
}

func (c *Client) Name() string     { return "gemini" }
func (c *Client) GetModel() string { return c.model }

func (c *Client) genai(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		if c.apiKey == "" {
			c.err = errors.New("GEMINI_API_KEY is empty")
			return
		}
		opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
		// The dial must outlive the first request's context.
		c.client, c.err = genai.NewClient(context.WithoutCancel(ctx), opts...)
	})
	return c.client, c.err
}

// DescribeImage sends the instruction and the photo in a single turn and
// returns the first text part of the reply.
func (c *Client) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	cl, err := c.genai(ctx)
	if err != nil {
		return "", err
	}
	m := cl.GenerativeModel(c.model)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt), genai.Blob{MIMEType: mimeType, Data: image})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return txt, nil
}

// GenerateParts sends a text-only instruction and returns every part of the
// first candidate, including inline image blobs.
func (c *Client) GenerateParts(ctx context.Context, prompt string) ([]app.Part, error) {
	cl, err := c.genai(ctx)
	if err != nil {
		return nil, err
	}
	m := cl.GenerativeModel(c.model)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return convertParts(resp), nil
}

// Complete runs a text-only prompt, used when Gemini also serves as the
// text backend.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	cl, err := c.genai(ctx)
	if err != nil {
		return "", err
	}
	m := cl.GenerativeModel(c.model)
	m.SetTemperature(temperature)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return firstText(resp), nil
}

// Close releases the underlying client if it was ever dialed.
func (c *Client) Close() error {
	// Waits for an in-progress dial and stops later ones.
	c.once.Do(func() { c.err = errClosed })
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func convertParts(resp *genai.GenerateContentResponse) []app.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	parts := resp.Candidates[0].Content.Parts
	out := make([]app.Part, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case genai.Text:
			out = append(out, app.Part{Text: string(v)})
		case genai.Blob:
			out = append(out, app.Part{MIMEType: v.MIMEType, Data: v.Data})
		case *genai.Blob:
			out = append(out, app.Part{MIMEType: v.MIMEType, Data: v.Data})
		}
	}
	return out
}
