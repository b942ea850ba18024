package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"reciclaje-quiz-service/internal/domain"
)

// PoolLoader fetches fallback content from a backing store (e.g., Postgres).
type PoolLoader interface {
	LoadPool(ctx context.Context) (domain.FallbackPool, error)
}

const poolKey = "pool"

// PoolRepository caches the fallback pool with TTL to avoid repeated DB hits.
type PoolRepository struct {
	loader PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	pool      domain.FallbackPool
	expiresAt time.Time
	loaded    bool
}

func NewPoolRepository(loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PoolRepository) GetPool(ctx context.Context) (domain.FallbackPool, error) {
	if pool, ok := r.cached(r.clock()); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(poolKey, func() (interface{}, error) {
		now := r.clock()
		if pool, ok := r.cached(now); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadPool(ctx)
		if err != nil {
			return domain.FallbackPool{}, err
		}

		r.mu.Lock()
		r.pool = pool
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.loaded = true
		r.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return domain.FallbackPool{}, err
	}
	return result.(domain.FallbackPool), nil
}

func (r *PoolRepository) cached(now time.Time) (domain.FallbackPool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.loaded && r.expiresAt.After(now) {
		return r.pool, true
	}
	return domain.FallbackPool{}, false
}

// StaticPoolLoader serves a fixed pool (built-in content, tests).
type StaticPoolLoader struct {
	pool domain.FallbackPool
}

func NewStaticPoolLoader(pool domain.FallbackPool) *StaticPoolLoader {
	return &StaticPoolLoader{pool: pool}
}

func (l *StaticPoolLoader) LoadPool(_ context.Context) (domain.FallbackPool, error) {
	if len(l.pool.Items) == 0 && len(l.pool.Tips) == 0 {
		return domain.FallbackPool{}, domain.ErrPoolEmpty
	}
	return l.pool, nil
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
