package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"reciclaje-quiz-service/internal/domain"
	"reciclaje-quiz-service/internal/textjson"
)

// Classifier sends a photographed waste item to the vision model and parses
// the bin it belongs in.
type Classifier struct {
	model  VisionModel
	logger *slog.Logger
}

func NewClassifier(model VisionModel, logger *slog.Logger) *Classifier {
	return &Classifier{model: model, logger: logger}
}

type rawClassification struct {
	Container string `json:"container"`
	Details   struct {
		Confidence string `json:"confidence"`
		ObjectName string `json:"objectName"`
		Reason     string `json:"reason"`
	} `json:"details"`
}

// Classify makes a single attempt; there is no fallback for a bad reply.
func (c *Classifier) Classify(ctx context.Context, image []byte, mimeType string) (domain.ClassificationResult, error) {
	if len(image) == 0 {
		return domain.ClassificationResult{}, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = http.DetectContentType(image)
	}

	c.logger.Info("classification started", "mime_type", mimeType, "bytes", len(image))
	reply, err := c.model.DescribeImage(ctx, classifyPrompt, image, mimeType)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	result, err := parseClassification(reply)
	if err != nil {
		c.logger.Warn("classification reply rejected", "error", err, "reply", truncate(reply, 300))
		return domain.ClassificationResult{}, err
	}
	c.logger.Info("classification complete",
		"container", result.Container,
		"object", result.Details.ObjectName,
		"confidence", result.Details.Confidence,
	)
	return result, nil
}

func parseClassification(reply string) (domain.ClassificationResult, error) {
	var raw rawClassification
	if err := textjson.Decode(reply, &raw); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %w", domain.ErrUpstreamParse, err)
	}
	container, err := domain.ParseContainer(raw.Container)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %w", domain.ErrUpstreamParse, err)
	}
	name := strings.TrimSpace(raw.Details.ObjectName)
	if name == "" {
		return domain.ClassificationResult{}, fmt.Errorf("%w: missing objectName", domain.ErrUpstreamParse)
	}
	return domain.ClassificationResult{
		Container: container.Label(),
		Details: domain.ClassificationDetails{
			Confidence: domain.ParseConfidence(raw.Details.Confidence),
			ObjectName: name,
			Reason:     strings.TrimSpace(raw.Details.Reason),
		},
	}, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
