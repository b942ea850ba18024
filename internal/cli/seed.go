package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"reciclaje-quiz-service/internal/app"
	"reciclaje-quiz-service/internal/config"
	"reciclaje-quiz-service/internal/infra/postgres"
	redisstore "reciclaje-quiz-service/internal/infra/redis"
)

// NewSeedCmd writes the built-in fallback items and tips to Postgres so they
// can be edited there afterwards.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the built-in fallback pool into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := runMigrations(ctx, cfg, slog.Default()); err != nil {
				return err
			}
			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			pool := app.DefaultPool()
			if err := postgres.SeedPool(ctx, db, pool); err != nil {
				return err
			}
			slog.Info("fallback pool seeded", "items", len(pool.Items), "tips", len(pool.Tips))
			return invalidatePoolCache(ctx, cfg)
		},
	}
}

// invalidatePoolCache drops the Redis copy of the pool so running servers
// reload the seeded rows on their next read.
func invalidatePoolCache(ctx context.Context, cfg config.Config) error {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := newRedisClient(cfg)
	defer client.Close()
	if err := redisstore.NewPoolRepository(client, nil, 0).Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate pool cache: %w", err)
	}
	slog.Info("pool cache invalidated", "addr", cfg.Redis.Addr)
	return nil
}
