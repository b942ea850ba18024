package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"reciclaje-quiz-service/internal/domain"
	"reciclaje-quiz-service/internal/textjson"
)

// QuestionSynthesizer builds one quiz question: an item from the text model
// (or the fallback pool) and a picture of it from the image model.
type QuestionSynthesizer struct {
	text   TextModel
	images ImageModel
	pool   PoolRepository
	picker *Picker
	logger *slog.Logger
}

func NewQuestionSynthesizer(text TextModel, images ImageModel, pool PoolRepository, picker *Picker, logger *slog.Logger) *QuestionSynthesizer {
	return &QuestionSynthesizer{
		text:   text,
		images: images,
		pool:   pool,
		picker: picker,
		logger: logger,
	}
}

// NextQuestion fails only when the image stage fails; item generation always
// produces something thanks to the fallback pool.
func (s *QuestionSynthesizer) NextQuestion(ctx context.Context) (domain.QuizQuestion, error) {
	item := s.generateItem(ctx)

	s.logger.Info("image generation started", "waste_name", item.Name)
	parts, err := s.images.GenerateParts(ctx, item.ImagePrompt)
	if err != nil {
		return domain.QuizQuestion{}, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	image, ok := firstImage(parts)
	if !ok {
		return domain.QuizQuestion{}, domain.ErrImageGeneration
	}

	question := domain.QuizQuestion{
		ImageURL:         dataURI(image),
		WasteName:        item.Name,
		CorrectContainer: item.Container,
		Justification:    item.Justification,
	}
	s.logger.Info("question generated", "waste_name", question.WasteName, "container", question.CorrectContainer)
	return question, nil
}

// generateItem asks the text model for an item and substitutes a random pool
// entry when the reply is unusable.
func (s *QuestionSynthesizer) generateItem(ctx context.Context) domain.QuizItem {
	reply, err := s.text.Complete(ctx, quizItemPrompt, quizItemTemperature)
	if err != nil {
		s.logger.Warn("quiz item generation failed, using fallback", "error", err)
		return s.fallbackItem(ctx)
	}
	item, err := parseQuizItem(reply)
	if err != nil {
		s.logger.Warn("quiz item reply rejected, using fallback", "error", err, "reply", truncate(reply, 300))
		return s.fallbackItem(ctx)
	}
	return item
}

func parseQuizItem(reply string) (domain.QuizItem, error) {
	var item domain.QuizItem
	if err := textjson.Decode(reply, &item); err != nil {
		return domain.QuizItem{}, fmt.Errorf("%w: %w", domain.ErrUpstreamParse, err)
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return domain.QuizItem{}, fmt.Errorf("%w: missing name", domain.ErrUpstreamParse)
	}
	container, err := domain.ParseContainer(item.Container)
	if err != nil {
		return domain.QuizItem{}, fmt.Errorf("%w: %w", domain.ErrUpstreamParse, err)
	}
	item.Container = container.Label()
	if strings.TrimSpace(item.ImagePrompt) == "" {
		item.ImagePrompt = "realistic photo of " + item.Name + " on white background"
	}
	return item, nil
}

func (s *QuestionSynthesizer) fallbackItem(ctx context.Context) domain.QuizItem {
	pool, err := s.pool.GetPool(ctx)
	if err != nil || len(pool.Items) == 0 {
		if err == nil {
			err = domain.ErrPoolEmpty
		}
		s.logger.Warn("fallback pool unavailable, using built-in items", "error", err)
		pool = DefaultPool()
	}
	return pool.Items[s.picker.Intn(len(pool.Items))]
}

func firstImage(parts []Part) (Part, bool) {
	for _, p := range parts {
		if len(p.Data) > 0 {
			return p, true
		}
	}
	return Part{}, false
}

// dataURI always labels the payload as PNG; the image model only emits PNG.
func dataURI(p Part) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(p.Data)
}
