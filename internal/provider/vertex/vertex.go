// Package vertex serves the vision and image-generation ports from Gemini
// models hosted on Vertex AI, authenticated with Google Cloud credentials
// instead of an API key.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"reciclaje-quiz-service/internal/app"
)

const (
	DefaultModel    = "gemini-2.5-flash-image"
	DefaultLocation = "us-central1"
)

var errClosed = errors.New("vertex client closed")

// Config selects the project and region the model runs in.
type Config struct {
	ProjectID       string
	Location        string
	Model           string
	CredentialsFile string
}

type Client struct {
	cfg Config

	once   sync.Once
	client *genai.Client
	err    error
}

func New(cfg Config) *Client {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if strings.TrimSpace(cfg.Location) == "" {
		cfg.Location = DefaultLocation
	}
	return &Client{cfg: cfg}
}

func (c *Client) Name() string { return "vertex" }

func (c *Client) genai(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		if strings.TrimSpace(c.cfg.ProjectID) == "" {
			c.err = errors.New("GOOGLE_PROJECT_ID is empty")
			return
		}
		var opts []option.ClientOption
		if c.cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(c.cfg.CredentialsFile))
		}
		c.client, c.err = genai.NewClient(context.WithoutCancel(ctx), c.cfg.ProjectID, c.cfg.Location, opts...)
		if c.err != nil {
			c.err = fmt.Errorf("vertex client: %w", c.err)
		}
	})
	return c.client, c.err
}

func (c *Client) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	cl, err := c.genai(ctx)
	if err != nil {
		return "", err
	}
	resp, err := cl.GenerativeModel(c.cfg.Model).GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: mimeType, Data: image},
	)
	if err != nil {
		return "", fmt.Errorf("vertex generate: %w", err)
	}
	for _, p := range convertParts(resp) {
		if p.Text != "" {
			return p.Text, nil
		}
	}
	return "", errors.New("vertex: no text in response")
}

func (c *Client) GenerateParts(ctx context.Context, prompt string) ([]app.Part, error) {
	cl, err := c.genai(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := cl.GenerativeModel(c.cfg.Model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("vertex generate: %w", err)
	}
	return convertParts(resp), nil
}

func (c *Client) Close() error {
	// Waits for an in-progress dial and stops later ones.
	c.once.Do(func() { c.err = errClosed })
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func convertParts(resp *genai.GenerateContentResponse) []app.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var out []app.Part
	for _, p := range resp.Candidates[0].Content.Parts {
		switch v := p.(type) {
		case genai.Text:
			out = append(out, app.Part{Text: string(v)})
		case genai.Blob:
			out = append(out, app.Part{MIMEType: v.MIMEType, Data: v.Data})
		}
	}
	return out
}
