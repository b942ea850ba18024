package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"reciclaje-quiz-service/internal/app"
	"reciclaje-quiz-service/internal/domain"
)

// ImageClassifier is satisfied by app.Classifier.
type ImageClassifier interface {
	Classify(ctx context.Context, image []byte, mimeType string) (domain.ClassificationResult, error)
}

// QuestionGenerator is satisfied by app.QuestionSynthesizer.
type QuestionGenerator interface {
	NextQuestion(ctx context.Context) (domain.QuizQuestion, error)
}

// TipSource is satisfied by app.TipProvider.
type TipSource interface {
	NextTip(ctx context.Context) domain.Tip
}

// Server exposes the REST endpoints and the quiz WebSocket on one mux.
type Server struct {
	classifier ImageClassifier
	questions  QuestionGenerator
	tips       TipSource
	quiz       *app.QuizService
	ws         *WSHandler
	mux        *http.ServeMux
	logger     *slog.Logger
}

func NewServer(classifier ImageClassifier, questions QuestionGenerator, tips TipSource, quiz *app.QuizService, logger *slog.Logger) *Server {
	s := &Server{
		classifier: classifier,
		questions:  questions,
		tips:       tips,
		quiz:       quiz,
		ws:         NewWSHandler(quiz, logger),
		mux:        http.NewServeMux(),
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	for _, path := range []string{"/classify", "/api/analyze"} {
		s.mux.HandleFunc("POST "+path, s.handleClassify)
	}
	for _, path := range []string{"/next-question", "/api/create"} {
		s.mux.HandleFunc("GET "+path, s.handleNextQuestion)
	}
	for _, path := range []string{"/tip", "/api/tips"} {
		s.mux.HandleFunc("GET "+path, s.handleTip)
	}
	s.mux.HandleFunc("GET /quiz/sessions/{id}", s.handleSessionSnapshot)
	s.mux.HandleFunc("GET /ws/quiz", s.ws.ServeWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, cors(s.mux)).ServeHTTP(w, r)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := errorResponse{Error: message}
	if err != nil {
		body.Details = err.Error()
	}
	writeJSON(w, status, body)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// cors allows any origin; the API carries no credentials of its own.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// statusRecorder captures the written status code. It forwards Hijack so the
// WebSocket upgrade still works behind the logger.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
