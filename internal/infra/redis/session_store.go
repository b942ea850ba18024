package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"reciclaje-quiz-service/internal/app"
	"reciclaje-quiz-service/internal/domain"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - It keeps a local in-memory map of sessions to reuse the in-process
//     state machine and broadcast logic.
//   - Every snapshot is mirrored to Redis with a TTL so other instances (or
//     an operator) can inspect live sessions; it is dropped on Delete.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
	mu       sync.RWMutex
	sessions map[string]*mirroredSession
}

type mirroredSession struct {
	session *app.Session
	cancel  func()
	done    chan struct{}
}

func NewSessionStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*mirroredSession),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.sessions[sessionID]; ok && !m.session.Closed() {
		return m.session
	}
	session := app.NewSession(sessionID)
	updates, cancel := session.Subscribe()
	m := &mirroredSession{session: session, cancel: cancel, done: make(chan struct{})}
	s.sessions[sessionID] = m
	go s.mirror(sessionID, updates, m.done)
	return session
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return m.session, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	m, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return
	}
	m.cancel()
	<-m.done
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// LoadSnapshot reads the last mirrored snapshot of a session.
func (s *SessionStore) LoadSnapshot(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	var snap domain.SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.SessionSnapshot{}, err
	}
	return snap, nil
}

func (s *SessionStore) mirror(sessionID string, updates <-chan domain.SessionSnapshot, done chan<- struct{}) {
	defer close(done)
	for snap := range updates {
		// The question image is a large data URI; keep only what identifies state.
		if snap.Question != nil {
			q := *snap.Question
			q.ImageURL = ""
			snap.Question = &q
		}
		data, err := json.Marshal(snap)
		if err != nil {
			continue
		}
		if err := s.client.Set(context.Background(), s.key(sessionID), data, s.ttl).Err(); err != nil {
			s.logger.Warn("mirror session snapshot failed", "session_id", sessionID, "error", err)
		}
	}
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
