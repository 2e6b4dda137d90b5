package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPool_Run(t *testing.T) {
	p, err := New(&Config{Workers: 2}, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown()

	boom := errors.New("boom")
	var done atomic.Int32
	tasks := []Task{
		func(ctx context.Context) error { done.Add(1); return nil },
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { panic("bad task") },
		func(ctx context.Context) error { done.Add(1); return nil },
	}

	errs := p.Run(context.Background(), tasks)

	require.Len(t, errs, 4)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.ErrorIs(t, errs[2], ErrPanicked)
	assert.NoError(t, errs[3])
	assert.Equal(t, int32(2), done.Load())

	stats := p.Stats()
	assert.Equal(t, int64(4), stats.Submitted)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(2), stats.Failed)
}

func TestPool_RunBoundsConcurrency(t *testing.T) {
	p, err := New(&Config{Workers: 3}, nil)
	require.NoError(t, err)
	defer p.Shutdown()

	var current, peak atomic.Int32
	tasks := make([]Task, 12)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			n := current.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return nil
		}
	}

	p.Run(context.Background(), tasks)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, 3, p.Cap())
}

func TestPool_RunCancelled(t *testing.T) {
	p, err := New(nil, nil)
	require.NoError(t, err)
	defer p.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	errs := p.Run(ctx, []Task{func(ctx context.Context) error { called = true; return nil }})

	assert.False(t, called)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p, err := New(nil, nil)
	require.NoError(t, err)
	p.Shutdown()

	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
}
