package cli

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"reciclaje-quiz-service/internal/config"
)

func TestInvalidatePoolCacheDropsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("pool:items", `[{"name":"Lata"}]`); err != nil {
		t.Fatalf("set items: %v", err)
	}
	if _, err := mr.Push("pool:tips", "Tip viejo."); err != nil {
		t.Fatalf("push tips: %v", err)
	}

	var cfg config.Config
	cfg.Redis.Addr = mr.Addr()
	if err := invalidatePoolCache(context.Background(), cfg); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("pool:items") || mr.Exists("pool:tips") {
		t.Fatal("expected cached pool keys to be removed")
	}
}

func TestInvalidatePoolCacheWithoutRedis(t *testing.T) {
	if err := invalidatePoolCache(context.Background(), config.Config{}); err != nil {
		t.Fatalf("expected no-op without redis, got %v", err)
	}
}
