package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"reciclaje-quiz-service/internal/app"
	"reciclaje-quiz-service/internal/domain"
	"reciclaje-quiz-service/internal/infra/memory"
)

type scriptedText struct {
	mu      sync.Mutex
	replies []string
}

// Complete returns the scripted replies in order, then repeats the last one.
func (s *scriptedText) Complete(context.Context, string, float32) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

type staticImages struct{}

func (staticImages) GenerateParts(context.Context, string) ([]app.Part, error) {
	return []app.Part{{Text: "imagen"}, {MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}}, nil
}

// blockingSource holds every request until release is closed.
type blockingSource struct {
	release chan struct{}
	err     error
}

func (b blockingSource) NextQuestion(ctx context.Context) (domain.QuizQuestion, error) {
	<-b.release
	return domain.QuizQuestion{WasteName: "tarde", CorrectContainer: "Blanco (Aprovechables)"}, b.err
}

func newLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestService(source app.QuestionSource) (*app.QuizService, *memory.SessionStore) {
	store := memory.NewSessionStore()
	return app.NewQuizService(store, source, newLogger()).WithFetchTimeout(5 * time.Second), store
}

func waitFor(t *testing.T, ch <-chan domain.SessionSnapshot, match func(domain.SessionSnapshot) bool) domain.SessionSnapshot {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				t.Fatal("subscription closed")
			}
			if match(snap) {
				return snap
			}
		case <-timeout:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func presentingAt(index int) func(domain.SessionSnapshot) bool {
	return func(s domain.SessionSnapshot) bool {
		return s.Phase == domain.PhasePresenting && s.QuestionIndex == index
	}
}

func TestRecyclingQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	text := &scriptedText{replies: []string{
		`{"name":"Cáscara de banano","container":"Verde (Orgánicos)","justification":"Es organico","imagePrompt":"banana peel"}`,
		`{"name":"Botella de vidrio","container":"Blanco","justification":"Vidrio limpio","imagePrompt":"glass bottle"}`,
		`{"name":"Icopor","container":"Negro","justification":"No aprovechable","imagePrompt":"styrofoam"}`,
	}}
	pool := memory.NewPoolRepository(memory.NewStaticPoolLoader(app.DefaultPool()), time.Minute)
	synth := app.NewQuestionSynthesizer(text, staticImages{}, pool, app.NewPicker(3), newLogger())
	service, _ := newTestService(synth)

	opened := service.Open(ctx, "")
	if opened.SessionID == "" || opened.Phase != domain.PhaseIdle {
		t.Fatalf("unexpected opened session %+v", opened)
	}
	id := opened.SessionID
	updates, cancel, err := service.Subscribe(ctx, id)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	snap, err := service.Start(ctx, id)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if snap.Score != 0 || snap.QuestionIndex != 0 {
		t.Fatalf("start did not reset: %+v", snap)
	}

	first := waitFor(t, updates, presentingAt(1))
	if first.Question.WasteName != "Cáscara de banano" || first.Question.CorrectContainer != "Verde (Orgánicos)" {
		t.Fatalf("unexpected first question %+v", first.Question)
	}
	result, _, err := service.Answer(ctx, id, "Verde")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !result.Correct || result.Score != 1 {
		t.Fatalf("expected correct answer with score 1, got %+v", result)
	}

	for index := 2; index <= domain.SessionLength; index++ {
		if _, err := service.Continue(ctx, id); err != nil {
			t.Fatalf("continue: %v", err)
		}
		waitFor(t, updates, presentingAt(index))
		if _, _, err := service.Answer(ctx, id, "Negro"); err != nil {
			t.Fatalf("answer %d: %v", index, err)
		}
	}

	final, err := service.Finish(ctx, id)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if final.Phase != domain.PhaseFinished {
		t.Fatalf("expected finished, got %s", final.Phase)
	}
	if final.Score < 1 || final.Score > domain.SessionLength {
		t.Fatalf("final score %d out of range", final.Score)
	}
	service.Wait()
}

func TestFetchFailureShowsPlaceholder(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	close(release)
	service, _ := newTestService(blockingSource{release: release, err: domain.ErrImageGeneration})

	service.Open(ctx, "s-1")
	updates, cancel, _ := service.Subscribe(ctx, "s-1")
	defer cancel()
	if _, err := service.Start(ctx, "s-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitFor(t, updates, presentingAt(1))
	if *snap.Question != app.PlaceholderQuestion || snap.LastError == "" {
		t.Fatalf("expected placeholder with error, got %+v", snap)
	}
}

func TestCloseDiscardsInflightQuestion(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	service, store := newTestService(blockingSource{release: release})

	if _, err := service.Start(ctx, "s-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	service.Close(ctx, "s-1")
	close(release)
	service.Wait()

	if store.Len() != 0 {
		t.Fatalf("expected session to be removed, %d left", store.Len())
	}
	if _, err := service.Snapshot(ctx, "s-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRestartDropsPreviousRequest(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	service, _ := newTestService(blockingSource{release: release})

	service.Start(ctx, "s-1")
	service.Start(ctx, "s-1")
	close(release)
	service.Wait()

	snap, err := service.Snapshot(ctx, "s-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.QuestionIndex != 1 || snap.Phase != domain.PhasePresenting {
		t.Fatalf("expected exactly one delivered question, got %+v", snap)
	}
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(blockingSource{release: make(chan struct{})})

	if _, _, err := service.Answer(ctx, "nope", "Blanco"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("answer: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.Continue(ctx, "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("continue: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.Finish(ctx, "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("finish: expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := service.Subscribe(ctx, "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("subscribe: expected ErrSessionNotFound, got %v", err)
	}
	service.Close(ctx, "nope")
}
