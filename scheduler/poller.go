// Package scheduler runs periodic refreshes bound to a view's lifetime.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Poller runs task every interval until stopped or its parent context ends.
// Start is idempotent while running.
type Poller struct {
	name     string
	interval time.Duration
	task     func(context.Context) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(name string, interval time.Duration, task func(context.Context) error) *Poller {
	return &Poller{name: name, interval: interval, task: task}
}

// Start runs the task once immediately and then on every tick.
func (p *Poller) Start(parent context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.run(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-progress run to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) run(ctx context.Context) {
	if err := p.task(ctx); err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Str("poller", p.name).Msg("scheduled refresh failed")
	}
}
