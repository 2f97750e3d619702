package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollerRunsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller("test", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("keeps going")
	})

	p.Start(context.Background())
	p.Start(context.Background())
	assert.True(t, p.Running())

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	p.Stop()
	assert.False(t, p.Running())
	stopped := runs.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())

	p.Stop()
}

func TestPollerStopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	seen := make(chan struct{}, 1)
	p := NewPoller("test", time.Hour, func(ctx context.Context) error {
		select {
		case seen <- struct{}{}:
		default:
		}
		return nil
	})

	p.Start(ctx)
	<-seen
	cancel()
	p.Stop()
	assert.False(t, p.Running())
}
