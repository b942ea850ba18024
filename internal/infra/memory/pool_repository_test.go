package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"reciclaje-quiz-service/internal/domain"
)

func TestPoolRepositoryCaches(t *testing.T) {
	loader := &countingLoader{PoolLoader: NewStaticPoolLoader(samplePool())}
	repo := NewPoolRepository(loader, time.Minute)

	pool, err := repo.GetPool(context.Background())
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if len(pool.Items) != 1 || pool.Items[0].Name != "Lata de aluminio" {
		t.Fatalf("unexpected pool %+v", pool)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetPool(context.Background()); err != nil {
		t.Fatalf("get pool 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestPoolRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{PoolLoader: NewStaticPoolLoader(samplePool())}
	repo := NewPoolRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetPool(context.Background()); err != nil {
		t.Fatalf("get pool: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetPool(context.Background()); err != nil {
		t.Fatalf("get pool after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestPoolRepositoryLoaderError(t *testing.T) {
	repo := NewPoolRepository(NewStaticPoolLoader(domain.FallbackPool{}), time.Minute)

	if _, err := repo.GetPool(context.Background()); !errors.Is(err, domain.ErrPoolEmpty) {
		t.Fatalf("expected ErrPoolEmpty, got %v", err)
	}
}

type countingLoader struct {
	PoolLoader
	calls int
}

func (l *countingLoader) LoadPool(ctx context.Context) (domain.FallbackPool, error) {
	l.calls++
	return l.PoolLoader.LoadPool(ctx)
}

func samplePool() domain.FallbackPool {
	return domain.FallbackPool{
		Items: []domain.QuizItem{
			{
				Name:          "Lata de aluminio",
				Container:     domain.Recyclable.Label(),
				Justification: "Es metal reciclable.",
				ImagePrompt:   "realistic photo of an aluminum can on white background",
			},
		},
		Tips: []string{"Separa tus residuos en casa."},
	}
}
