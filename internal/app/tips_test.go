package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"reciclaje-quiz-service/internal/domain"
)

func TestNextTipSuccessIsTrimmed(t *testing.T) {
	text := &fakeText{reply: "  Lava y seca los envases antes de llevarlos a la caneca blanca.\n"}
	tip := NewTipProvider(text, fakePool{pool: testPool()}, NewPicker(1), discardLogger()).NextTip(context.Background())
	if tip.Text != "Lava y seca los envases antes de llevarlos a la caneca blanca." {
		t.Fatalf("unexpected tip %q", tip.Text)
	}
	if text.temperatures[0] != tipTemperature {
		t.Fatalf("expected temperature %v, got %v", tipTemperature, text.temperatures[0])
	}
}

func TestNextTipNeverFails(t *testing.T) {
	pool := testPool()

	tip := NewTipProvider(&fakeText{err: errors.New("rate limited")}, fakePool{pool: pool}, NewPicker(1), discardLogger()).
		NextTip(context.Background())
	if !contains(pool.Tips, tip.Text) {
		t.Fatalf("expected a pool tip on provider error, got %q", tip.Text)
	}

	tip = NewTipProvider(&fakeText{reply: "   "}, fakePool{pool: pool}, NewPicker(1), discardLogger()).
		NextTip(context.Background())
	if tip.Text != DefaultTip {
		t.Fatalf("expected default tip on empty reply, got %q", tip.Text)
	}

	tip = NewTipProvider(&fakeText{err: errors.New("down")}, fakePool{err: domain.ErrPoolEmpty}, NewPicker(1), discardLogger()).
		NextTip(context.Background())
	if !contains(DefaultPool().Tips, tip.Text) {
		t.Fatalf("expected a built-in tip when the pool is unavailable, got %q", tip.Text)
	}
}

func TestNextTipCoalescesConcurrentCallers(t *testing.T) {
	text := &fakeText{reply: "Separa el vidrio.", gate: make(chan struct{})}
	provider := NewTipProvider(text, fakePool{pool: testPool()}, NewPicker(1), discardLogger())

	const callers = 5
	var wg sync.WaitGroup
	results := make(chan domain.Tip, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- provider.NextTip(context.Background())
		}()
	}

	deadline := time.Now().Add(time.Second)
	for text.Calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(text.gate)
	wg.Wait()
	close(results)

	for tip := range results {
		if tip.Text != "Separa el vidrio." {
			t.Fatalf("unexpected tip %q", tip.Text)
		}
	}
	if calls := text.Calls(); calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
}

func TestNextTipSurvivesFirstCallerCancel(t *testing.T) {
	text := &fakeText{reply: "Separa el vidrio.", gate: make(chan struct{})}
	pool := testPool()
	provider := NewTipProvider(text, fakePool{pool: pool}, NewPicker(1), discardLogger())

	ctxA, cancelA := context.WithCancel(context.Background())
	first := make(chan domain.Tip, 1)
	go func() { first <- provider.NextTip(ctxA) }()

	deadline := time.Now().Add(time.Second)
	for text.Calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	second := make(chan domain.Tip, 1)
	go func() { second <- provider.NextTip(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case tip := <-first:
		if !contains(pool.Tips, tip.Text) {
			t.Fatalf("expected a pool tip for the cancelled caller, got %q", tip.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(text.gate)
	select {
	case tip := <-second:
		if tip.Text != "Separa el vidrio." {
			t.Fatalf("expected the model tip, got %q", tip.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
	if calls := text.Calls(); calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
