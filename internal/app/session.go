package app

import (
	"strings"
	"sync"
	"time"

	"reciclaje-quiz-service/internal/domain"
)

// Ticket identifies one outstanding question request. Results carrying a
// stale ticket (after a restart or close) are discarded.
type Ticket uint64

// Session is the quiz state machine for one player. All mutations go through
// the named transitions below; each one broadcasts a snapshot.
type Session struct {
	id  string
	now func() time.Time

	mu            sync.Mutex
	phase         domain.Phase
	score         int
	questionIndex int
	current       *domain.QuizQuestion
	answer        domain.AnswerState
	lastError     string
	closed        bool
	ticket        Ticket
	subscribers   map[chan domain.SessionSnapshot]struct{}
}

// NewSession returns an idle session.
func NewSession(id string) *Session {
	return NewSessionWithClock(id, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:          id,
		now:         now,
		phase:       domain.PhaseIdle,
		subscribers: make(map[chan domain.SessionSnapshot]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Start resets the score and requests the first question. Starting an
// already running session restarts it.
func (s *Session) Start() (Ticket, domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, domain.SessionSnapshot{}, domain.ErrSessionClosed
	}

	s.score = 0
	s.questionIndex = 0
	s.current = nil
	s.answer = domain.AnswerState{}
	s.lastError = ""
	s.phase = domain.PhaseLoading
	s.ticket++
	return s.ticket, s.broadcastLocked(), nil
}

// QuestionReady delivers the result of the request identified by t. A fetch
// error substitutes the placeholder question so the quiz keeps going.
// It reports false when the result is stale and was dropped.
func (s *Session) QuestionReady(t Ticket, q domain.QuizQuestion, fetchErr error) (domain.SessionSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.phase != domain.PhaseLoading || t != s.ticket {
		return domain.SessionSnapshot{}, false
	}

	s.lastError = ""
	if fetchErr != nil {
		q = PlaceholderQuestion
		s.lastError = "No se pudo generar la pregunta."
	}
	// The placeholder also counts as a question, unlike the web client which
	// only advanced on success; a failing model cannot keep the quiz open.
	if s.questionIndex < domain.SessionLength {
		s.questionIndex++
	}
	s.current = &q
	s.answer = domain.AnswerState{}
	s.phase = domain.PhasePresenting
	return s.broadcastLocked(), true
}

// Answer records the player's choice. Only the first answer to a question
// counts; later calls return that first result unchanged.
func (s *Session) Answer(option string) (domain.AnswerResult, domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.AnswerResult{}, domain.SessionSnapshot{}, domain.ErrSessionClosed
	}
	if s.phase != domain.PhasePresenting || s.current == nil {
		return domain.AnswerResult{}, domain.SessionSnapshot{}, domain.ErrInvalidTransition
	}
	if !domain.IsOption(option) {
		return domain.AnswerResult{}, domain.SessionSnapshot{}, domain.ErrInvalidOption
	}

	if !s.answer.Answered {
		correct := matchesContainer(option, s.current.CorrectContainer)
		s.answer = domain.AnswerState{Answered: true, Selected: option, IsCorrect: correct}
		if correct {
			s.score++
		}
		return s.resultLocked(), s.broadcastLocked(), nil
	}
	return s.resultLocked(), s.snapshotLocked(), nil
}

// Continue moves past an answered question: either a new question is
// requested (ok is true with a fresh ticket) or the quiz finishes.
func (s *Session) Continue() (t Ticket, ok bool, snap domain.SessionSnapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, false, domain.SessionSnapshot{}, domain.ErrSessionClosed
	}
	if s.phase != domain.PhasePresenting || !s.answer.Answered {
		return 0, false, domain.SessionSnapshot{}, domain.ErrInvalidTransition
	}

	if s.questionIndex >= domain.SessionLength {
		s.phase = domain.PhaseFinished
		return 0, false, s.broadcastLocked(), nil
	}
	s.phase = domain.PhaseLoading
	s.ticket++
	return s.ticket, true, s.broadcastLocked(), nil
}

// Finish shows the final score once the last question has been answered.
func (s *Session) Finish() (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.SessionSnapshot{}, domain.ErrSessionClosed
	}
	if s.phase == domain.PhaseFinished {
		return s.snapshotLocked(), nil
	}
	if s.phase != domain.PhasePresenting || !s.answer.Answered || s.questionIndex < domain.SessionLength {
		return domain.SessionSnapshot{}, domain.ErrInvalidTransition
	}
	s.phase = domain.PhaseFinished
	return s.broadcastLocked(), nil
}

// Close terminates the session and releases every subscriber. Any question
// still in flight is discarded when it arrives.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot returns the current state.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every transition,
// starting with the current state. The caller must invoke cancel.
func (s *Session) Subscribe() (<-chan domain.SessionSnapshot, func()) {
	ch := make(chan domain.SessionSnapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.SessionSnapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest queued snapshot; only the latest state matters.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		SessionID:     s.id,
		Phase:         s.phase,
		Score:         s.score,
		QuestionIndex: s.questionIndex,
		SessionLength: domain.SessionLength,
		Answer:        s.answer,
		LastError:     s.lastError,
		Options:       domain.Options(),
		UpdatedAt:     s.now(),
	}
	if s.current != nil {
		q := *s.current
		snap.Question = &q
	}
	return snap
}

func (s *Session) resultLocked() domain.AnswerResult {
	return domain.AnswerResult{
		Selected:         s.answer.Selected,
		Correct:          s.answer.IsCorrect,
		CorrectContainer: s.current.CorrectContainer,
		Justification:    s.current.Justification,
		Score:            s.score,
	}
}

// matchesContainer compares a bare option ("Blanco") with the canonical
// label ("Blanco (Aprovechables)") by prefix.
func matchesContainer(option, correctContainer string) bool {
	return strings.HasPrefix(correctContainer, option)
}
