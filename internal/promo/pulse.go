// Package promo produces the presentation pulse for the landing pages: the
// countdown deadline, the simulated live-viewer count, and the remaining
// stock figure. It feeds display state only and has no edge into the
// checkout pipeline.
package promo

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Pulse is one snapshot of the promotional counters.
type Pulse struct {
	CountdownSeconds int64     `json:"countdown_seconds"`
	Viewers          int       `json:"viewers"`
	StockLeft        int       `json:"stock_left"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Config tunes the pulse generator.
type Config struct {
	Interval        time.Duration
	CountdownWindow time.Duration
	MinViewers      int
	MaxViewers      int
	InitialStock    int
	MinStock        int
}

// Ticker regenerates the pulse on a fixed interval. Viewers take a bounded
// random walk, stock drifts down to a floor, and the countdown restarts
// once it reaches zero.
type Ticker struct {
	cfg  Config
	now  func() time.Time
	rand *rand.Rand

	mu       sync.RWMutex
	deadline time.Time
	current  Pulse
}

func NewTicker(cfg Config) *Ticker {
	if cfg.Interval <= 0 {
		cfg.Interval = 3 * time.Second
	}
	if cfg.CountdownWindow <= 0 {
		cfg.CountdownWindow = 30 * time.Minute
	}
	if cfg.MaxViewers <= cfg.MinViewers {
		cfg.MaxViewers = cfg.MinViewers + 1
	}

	t := &Ticker{
		cfg:  cfg,
		now:  time.Now,
		rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	now := t.now()
	t.deadline = now.Add(cfg.CountdownWindow)
	t.current = Pulse{
		CountdownSeconds: int64(cfg.CountdownWindow.Seconds()),
		Viewers:          cfg.MinViewers + (cfg.MaxViewers-cfg.MinViewers)/2,
		StockLeft:        cfg.InitialStock,
		UpdatedAt:        now,
	}
	return t
}

// Run regenerates the pulse until the context is canceled.
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// Snapshot returns the latest pulse.
func (t *Ticker) Snapshot() Pulse {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *Ticker) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !now.Before(t.deadline) {
		t.deadline = now.Add(t.cfg.CountdownWindow)
	}

	viewers := t.current.Viewers + t.rand.IntN(7) - 3
	if viewers < t.cfg.MinViewers {
		viewers = t.cfg.MinViewers
	}
	if viewers > t.cfg.MaxViewers {
		viewers = t.cfg.MaxViewers
	}

	stock := t.current.StockLeft
	if stock > t.cfg.MinStock && t.rand.IntN(10) == 0 {
		stock--
	}

	t.current = Pulse{
		CountdownSeconds: int64(t.deadline.Sub(now).Seconds()),
		Viewers:          viewers,
		StockLeft:        stock,
		UpdatedAt:        now,
	}
}
