package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"reciclaje-quiz-service/internal/domain"
)

type fallbackItem struct {
	bun.BaseModel `bun:"table:fallback_items"`

	Name          string `bun:"name,pk"`
	Container     string `bun:"container,notnull"`
	Justification string `bun:"justification,notnull"`
	ImagePrompt   string `bun:"image_prompt,notnull"`
}

type fallbackTip struct {
	bun.BaseModel `bun:"table:fallback_tips"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Text string `bun:"text,notnull,unique"`
}

// SeedPool upserts the given items and tips. Existing rows are updated in place.
func SeedPool(ctx context.Context, db *bun.DB, pool domain.FallbackPool) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(pool.Items) > 0 {
			items := make([]fallbackItem, 0, len(pool.Items))
			for _, it := range pool.Items {
				items = append(items, fallbackItem{
					Name:          it.Name,
					Container:     it.Container,
					Justification: it.Justification,
					ImagePrompt:   it.ImagePrompt,
				})
			}
			if _, err := tx.NewInsert().
				Model(&items).
				On("CONFLICT (name) DO UPDATE").
				Set("container = EXCLUDED.container").
				Set("justification = EXCLUDED.justification").
				Set("image_prompt = EXCLUDED.image_prompt").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed fallback items: %w", err)
			}
		}
		if len(pool.Tips) > 0 {
			tips := make([]fallbackTip, 0, len(pool.Tips))
			for _, text := range pool.Tips {
				tips = append(tips, fallbackTip{Text: text})
			}
			if _, err := tx.NewInsert().
				Model(&tips).
				On("CONFLICT (text) DO NOTHING").
				Returning("NULL").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed fallback tips: %w", err)
			}
		}
		return nil
	})
}
