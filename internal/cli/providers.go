package cli

import (
	"fmt"
	"io"

	"reciclaje-quiz-service/internal/app"
	"reciclaje-quiz-service/internal/config"
	"reciclaje-quiz-service/internal/provider/claude"
	"reciclaje-quiz-service/internal/provider/gemini"
	"reciclaje-quiz-service/internal/provider/groq"
	"reciclaje-quiz-service/internal/provider/vertex"
)

// models holds the provider handles shared by every request.
type models struct {
	vision  app.VisionModel
	images  app.ImageModel
	text    app.TextModel
	closers []io.Closer
}

func (m *models) Close() {
	for _, c := range m.closers {
		_ = c.Close()
	}
}

func buildModels(cfg config.Providers) (*models, error) {
	m := &models{}

	// Gemini and Vertex clients are dialed lazily, so constructing both is free.
	gem := gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model)
	vtx := vertex.New(vertex.Config{
		ProjectID:       cfg.Vertex.ProjectID,
		Location:        cfg.Vertex.Location,
		Model:           cfg.Vertex.Model,
		CredentialsFile: cfg.Vertex.CredentialsFile,
	})
	m.closers = append(m.closers, gem, vtx)

	switch cfg.Vision {
	case "gemini":
		m.vision = gem
	case "vertex":
		m.vision = vtx
	case "claude":
		m.vision = claude.New(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.BaseURL)
	default:
		return nil, fmt.Errorf("unknown vision provider %q", cfg.Vision)
	}

	switch cfg.Images {
	case "gemini":
		m.images = gem
	case "vertex":
		m.images = vtx
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.Images)
	}

	switch cfg.Text {
	case "groq":
		m.text = groq.New(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.BaseURL)
	case "gemini":
		m.text = gem
	default:
		return nil, fmt.Errorf("unknown text provider %q", cfg.Text)
	}
	return m, nil
}
