package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"reciclaje-quiz-service/internal/domain"
)

// TipProvider fetches short recycling tips. It never fails.
type TipProvider struct {
	text   TextModel
	pool   PoolRepository
	picker *Picker
	logger *slog.Logger
	sf     singleflight.Group
}

func NewTipProvider(text TextModel, pool PoolRepository, picker *Picker, logger *slog.Logger) *TipProvider {
	return &TipProvider{text: text, pool: pool, picker: picker, logger: logger}
}

const tipFetchTimeout = 30 * time.Second

// NextTip coalesces concurrent callers into a single upstream request. The
// shared request is not tied to any one caller; a caller that gives up early
// gets a fallback tip for itself only.
func (p *TipProvider) NextTip(ctx context.Context) domain.Tip {
	ch := p.sf.DoChan("tip", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tipFetchTimeout)
		defer cancel()
		return p.fetch(fetchCtx), nil
	})
	select {
	case res := <-ch:
		return res.Val.(domain.Tip)
	case <-ctx.Done():
		return p.fallback(context.WithoutCancel(ctx))
	}
}

func (p *TipProvider) fetch(ctx context.Context) domain.Tip {
	reply, err := p.text.Complete(ctx, tipPrompt, tipTemperature)
	if err != nil {
		p.logger.Warn("tip generation failed, using fallback", "error", err)
		return p.fallback(ctx)
	}
	text := strings.TrimSpace(reply)
	if text == "" {
		text = DefaultTip
	}
	p.logger.Debug("tip generated", "tip", text)
	return domain.Tip{Text: text}
}

func (p *TipProvider) fallback(ctx context.Context) domain.Tip {
	pool, err := p.pool.GetPool(ctx)
	if err != nil || len(pool.Tips) == 0 {
		pool = DefaultPool()
	}
	return domain.Tip{Text: pool.Tips[p.picker.Intn(len(pool.Tips))]}
}
