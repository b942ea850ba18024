package app

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"reciclaje-quiz-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeVision struct {
	reply string
	err   error

	mu       sync.Mutex
	calls    int
	mimeType string
}

func (f *fakeVision) DescribeImage(_ context.Context, _ string, _ []byte, mimeType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.mimeType = mimeType
	return f.reply, f.err
}

// fakeText answers every prompt with reply/err. When gate is set each call
// blocks until it is closed.
type fakeText struct {
	reply string
	err   error
	gate  chan struct{}

	mu           sync.Mutex
	calls        int
	temperatures []float32
}

func (f *fakeText) Complete(ctx context.Context, _ string, temperature float32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.temperatures = append(f.temperatures, temperature)
	f.mu.Unlock()
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeText) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeImages struct {
	parts []Part
	err   error

	mu      sync.Mutex
	prompts []string
}

func (f *fakeImages) GenerateParts(_ context.Context, prompt string) ([]Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.parts, f.err
}

type fakePool struct {
	pool domain.FallbackPool
	err  error
}

func (f fakePool) GetPool(context.Context) (domain.FallbackPool, error) {
	return f.pool, f.err
}

func testPool() domain.FallbackPool {
	return domain.FallbackPool{
		Items: []domain.QuizItem{
			{Name: "Lata de atún", Container: domain.Recyclable.Label(), Justification: "Metal limpio.", ImagePrompt: "tuna can"},
			{Name: "Servilleta usada", Container: domain.NonRecyclable.Label(), Justification: "Papel contaminado.", ImagePrompt: "used napkin"},
			{Name: "Restos de café", Container: domain.Organic.Label(), Justification: "Se compostan.", ImagePrompt: "coffee grounds"},
		},
		Tips: []string{"Tip uno.", "Tip dos.", "Tip tres.", "Tip cuatro.", "Tip cinco."},
	}
}

func pngPart() Part {
	return Part{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
}
