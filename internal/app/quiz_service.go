package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"reciclaje-quiz-service/internal/domain"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// SnapshotLoader is implemented by stores that share session state across
// instances, so a session held elsewhere can still be read.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, sessionID string) (domain.SessionSnapshot, error)
}

// QuestionSource produces quiz questions; QuestionSynthesizer in production.
type QuestionSource interface {
	NextQuestion(ctx context.Context) (domain.QuizQuestion, error)
}

const defaultFetchTimeout = 2 * time.Minute

// QuizService drives quiz sessions: it applies player events and fetches
// questions in the background, feeding the results back into the session.
type QuizService struct {
	sessions     SessionRepository
	questions    QuestionSource
	logger       *slog.Logger
	fetchTimeout time.Duration
	inflight     sync.WaitGroup
}

func NewQuizService(store SessionRepository, questions QuestionSource, logger *slog.Logger) *QuizService {
	return &QuizService{
		sessions:     store,
		questions:    questions,
		logger:       logger,
		fetchTimeout: defaultFetchTimeout,
	}
}

// WithFetchTimeout bounds each background question request.
func (s *QuizService) WithFetchTimeout(d time.Duration) *QuizService {
	if d > 0 {
		s.fetchTimeout = d
	}
	return s
}

// Open returns the session with the given ID, creating an idle one when it
// does not exist. An empty sessionID allocates a new one.
func (s *QuizService) Open(_ context.Context, sessionID string) domain.SessionSnapshot {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return s.sessions.GetOrCreate(sessionID).Snapshot()
}

// Start begins (or restarts) a quiz. An empty sessionID allocates a new one.
func (s *QuizService) Start(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	session := s.sessions.GetOrCreate(sessionID)
	ticket, snap, err := session.Start()
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	s.logger.Info("quiz started", "session_id", sessionID)
	s.fetch(ctx, session, ticket)
	return snap, nil
}

// Answer submits one of the bin options for the current question.
func (s *QuizService) Answer(_ context.Context, sessionID, option string) (domain.AnswerResult, domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerResult{}, domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	result, snap, err := session.Answer(option)
	if err != nil {
		return domain.AnswerResult{}, domain.SessionSnapshot{}, err
	}
	s.logger.Info("answer recorded",
		"session_id", sessionID,
		"question", snap.QuestionIndex,
		"selected", result.Selected,
		"correct", result.Correct,
		"score", result.Score,
	)
	return result, snap, nil
}

// Continue requests the next question, or finishes after the last one.
func (s *QuizService) Continue(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	ticket, more, snap, err := session.Continue()
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	if more {
		s.fetch(ctx, session, ticket)
	} else {
		s.logger.Info("quiz finished", "session_id", sessionID, "score", snap.Score)
	}
	return snap, nil
}

// Finish ends the quiz after the last question has been answered.
func (s *QuizService) Finish(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	snap, err := session.Finish()
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	s.logger.Info("quiz finished", "session_id", sessionID, "score", snap.Score)
	return snap, nil
}

// Close discards the session. Results of in-flight requests are dropped.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(sessionID)
	s.logger.Info("quiz closed", "session_id", sessionID)
}

// Snapshot returns the current state of a session. Sessions not held by
// this instance are read from the store's shared copy when it has one.
func (s *QuizService) Snapshot(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	if session, ok := s.sessions.Get(sessionID); ok {
		return session.Snapshot(), nil
	}
	if loader, ok := s.sessions.(SnapshotLoader); ok {
		return loader.LoadSnapshot(ctx, sessionID)
	}
	return domain.SessionSnapshot{}, domain.ErrSessionNotFound
}

// Subscribe returns a channel that receives session snapshots.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionSnapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Wait blocks until every background question request has been delivered.
func (s *QuizService) Wait() {
	s.inflight.Wait()
}

// fetch runs one question request detached from the caller's cancellation;
// closing the session does not abort it, the result is simply dropped.
func (s *QuizService) fetch(ctx context.Context, session *Session, ticket Ticket) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()

		question, err := s.questions.NextQuestion(ctx)
		if err != nil {
			s.logger.Error("question fetch failed, using placeholder", "session_id", session.ID(), "error", err)
		}
		if _, applied := session.QuestionReady(ticket, question, err); !applied {
			s.logger.Debug("stale question discarded", "session_id", session.ID())
		}
	}()
}
