package app

import (
	"math/rand"
	"sync"
	"time"
)

// Picker makes uniform choices over fixed pools. It is safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with seed; use a fixed seed in tests.
func NewPicker(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededPicker is the production Picker.
func NewTimeSeededPicker() *Picker {
	return NewPicker(time.Now().UnixNano())
}

// Intn returns a uniform index in [0, n).
func (p *Picker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n)
}
