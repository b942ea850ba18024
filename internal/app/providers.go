package app

import (
	"context"

	"reciclaje-quiz-service/internal/domain"
)

// VisionModel answers a text instruction about a single image.
type VisionModel interface {
	DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// Part is one piece of multimodal model output. Data is set for inline
// binary payloads such as generated images.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// ImageModel turns an instruction into generated content parts.
type ImageModel interface {
	GenerateParts(ctx context.Context, prompt string) ([]Part, error)
}

// TextModel completes a single-turn prompt.
type TextModel interface {
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)
}

// PoolRepository loads fallback content (from cache/backing store).
type PoolRepository interface {
	GetPool(ctx context.Context) (domain.FallbackPool, error)
}
