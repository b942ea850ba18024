package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"reciclaje-quiz-service/internal/domain"
)

// PoolLoader fetches fallback content from a backing store (e.g., Postgres).
type PoolLoader interface {
	LoadPool(ctx context.Context) (domain.FallbackPool, error)
}

// PoolRepository caches the fallback pool in Redis and falls back to a loader on cache miss.
// Items are stored as:  SET pool:items <json array>
// Tips are stored as:   RPUSH pool:tips <tip>...
type PoolRepository struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

const (
	itemsKey = "pool:items"
	tipsKey  = "pool:tips"
)

func NewPoolRepository(client *redis.Client, loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PoolRepository) GetPool(ctx context.Context) (domain.FallbackPool, error) {
	if pool, ok := r.fromCache(ctx); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(itemsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := r.fromCache(ctx); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadPool(ctx)
		if err != nil {
			return domain.FallbackPool{}, err
		}

		items, err := json.Marshal(pool.Items)
		if err != nil {
			return domain.FallbackPool{}, err
		}
		ttl := r.ttlWithJitter()
		pipe := r.client.TxPipeline()
		pipe.Set(ctx, itemsKey, items, ttl)
		pipe.Del(ctx, tipsKey)
		if len(pool.Tips) > 0 {
			tips := make([]interface{}, 0, len(pool.Tips))
			for _, tip := range pool.Tips {
				tips = append(tips, tip)
			}
			pipe.RPush(ctx, tipsKey, tips...)
			if ttl > 0 {
				pipe.Expire(ctx, tipsKey, ttl)
			}
		}
		// best-effort: a failed cache write still serves the loaded pool
		_, _ = pipe.Exec(ctx)

		return pool, nil
	})
	if err != nil {
		return domain.FallbackPool{}, err
	}
	return result.(domain.FallbackPool), nil
}

// Invalidate drops the cached pool so the next read hits the loader.
func (r *PoolRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, itemsKey, tipsKey).Err()
}

func (r *PoolRepository) fromCache(ctx context.Context) (domain.FallbackPool, bool) {
	raw, err := r.client.Get(ctx, itemsKey).Bytes()
	if err != nil {
		return domain.FallbackPool{}, false
	}
	var pool domain.FallbackPool
	if err := json.Unmarshal(raw, &pool.Items); err != nil {
		return domain.FallbackPool{}, false
	}
	tips, err := r.client.LRange(ctx, tipsKey, 0, -1).Result()
	if err != nil {
		return domain.FallbackPool{}, false
	}
	pool.Tips = tips
	return pool, true
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
