package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Submit(t *testing.T) {
	p := New(&Config{Name: "test-submit", MaxWorkers: 2, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	boom := errors.New("boom")
	assert.NoError(t, p.Submit(context.Background(), func(context.Context) error { return nil }))
	assert.ErrorIs(t, p.Submit(context.Background(), func(context.Context) error { return boom }), boom)
}

func TestPool_PanicDoesNotKillWorker(t *testing.T) {
	p := New(&Config{Name: "test-panic", MaxWorkers: 1, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	err := p.Submit(context.Background(), func(context.Context) error { panic("sink exploded") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink exploded")

	assert.NoError(t, p.Submit(context.Background(), func(context.Context) error { return nil }))
}

func TestPool_SubmitAsyncAndShutdown(t *testing.T) {
	p := New(&Config{Name: "test-async", MaxWorkers: 4, QueueSize: 16}, nil)

	var ran int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.SubmitAsync(context.Background(), func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
	assert.Equal(t, int32(10), atomic.LoadInt32(&ran))
	assert.True(t, p.IsClosed())

	assert.ErrorIs(t, p.SubmitAsync(context.Background(), func(context.Context) error { return nil }), ErrWorkerPoolClosed)
}

func TestPool_QueueFull(t *testing.T) {
	p := New(&Config{Name: "test-full", MaxWorkers: 1, QueueSize: 1}, nil)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.SubmitAsync(context.Background(), func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.NoError(t, p.SubmitAsync(context.Background(), func(context.Context) error { return nil }))
	assert.ErrorIs(t, p.SubmitAsync(context.Background(), func(context.Context) error { return nil }), ErrWorkerPoolFull)

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, 1, p.GetMetrics().QueueCapacity)
}

func TestPool_ShutdownTimeoutCancelsRunning(t *testing.T) {
	p := New(&Config{Name: "test-timeout", MaxWorkers: 1, QueueSize: 1}, nil)
	started := make(chan struct{})
	var cancelled int32

	require.NoError(t, p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		atomic.StoreInt32(&cancelled, 1)
		return ctx.Err()
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&cancelled) == 1 }, time.Second, 5*time.Millisecond)
}
