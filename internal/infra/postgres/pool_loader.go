package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"reciclaje-quiz-service/internal/domain"
)

// PoolLoader loads the fallback items and tips from Postgres.
type PoolLoader struct {
	pool *pgxpool.Pool
}

func NewPoolLoader(pool *pgxpool.Pool) *PoolLoader {
	return &PoolLoader{pool: pool}
}

func (l *PoolLoader) LoadPool(ctx context.Context) (domain.FallbackPool, error) {
	var out domain.FallbackPool

	rows, err := l.pool.Query(ctx, `SELECT name, container, justification, image_prompt FROM fallback_items ORDER BY name`)
	if err != nil {
		return domain.FallbackPool{}, fmt.Errorf("load fallback items: %w", err)
	}
	for rows.Next() {
		var item domain.QuizItem
		if err := rows.Scan(&item.Name, &item.Container, &item.Justification, &item.ImagePrompt); err != nil {
			rows.Close()
			return domain.FallbackPool{}, fmt.Errorf("scan fallback item: %w", err)
		}
		out.Items = append(out.Items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.FallbackPool{}, fmt.Errorf("load fallback items: %w", err)
	}

	rows, err = l.pool.Query(ctx, `SELECT text FROM fallback_tips ORDER BY id`)
	if err != nil {
		return domain.FallbackPool{}, fmt.Errorf("load fallback tips: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tip string
		if err := rows.Scan(&tip); err != nil {
			return domain.FallbackPool{}, fmt.Errorf("scan fallback tip: %w", err)
		}
		out.Tips = append(out.Tips, tip)
	}
	if err := rows.Err(); err != nil {
		return domain.FallbackPool{}, fmt.Errorf("load fallback tips: %w", err)
	}

	if len(out.Items) == 0 && len(out.Tips) == 0 {
		return domain.FallbackPool{}, domain.ErrPoolEmpty
	}
	return out, nil
}
