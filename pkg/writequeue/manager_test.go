package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SameKeyRunsSerially(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	var running, maxRunning atomic.Int32
	var order []int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := m.Execute(context.Background(), "Product:1", func() error {
				n := running.Add(1)
				for {
					cur := maxRunning.Load()
					if n <= cur || maxRunning.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				running.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxRunning.Load())
	assert.Len(t, order, 20)
}

func TestManager_ReturnsFnError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	want := assert.AnError
	err := m.Execute(context.Background(), "Stock:1", func() error { return want })
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 1, m.QueueCount())
}

func TestManager_DifferentKeysRunConcurrently(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{}, 2)

	var wg sync.WaitGroup
	for _, key := range []string{"Product:1", "Product:2"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_ = m.Execute(context.Background(), key, func() error {
				started <- struct{}{}
				<-release
				return nil
			})
		}(key)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("writes on different keys did not run concurrently")
		}
	}
	close(release)
	wg.Wait()
}

func TestManager_ClosedAndCancelled(t *testing.T) {
	m := New(&Config{WriteTimeout: time.Second}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Execute(ctx, "Category:1", func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.True(t, m.IsClosed())
	assert.ErrorIs(t, m.Execute(context.Background(), "Category:1", func() error { return nil }), ErrWriteQueueClosed)
}

func TestManager_QueueFullAndIdleReap(t *testing.T) {
	m := New(&Config{QueueCapacity: 1, IdleTimeout: 40 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), "Product:9", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	// 第一个操作执行中，第二个占满队列
	go func() { _ = m.Execute(context.Background(), "Product:9", func() error { return nil }) }()
	assert.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		return errors.Is(m.Execute(ctx, "Product:9", func() error { return nil }), ErrWriteQueueFull)
	}, time.Second, 5*time.Millisecond)

	close(release)
	assert.Eventually(t, func() bool { return m.QueueCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestManager_PanicBecomesError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	err := m.Execute(context.Background(), "Stock:2", func() error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.NoError(t, m.Execute(context.Background(), "Stock:2", func() error { return nil }))
}

func TestManager_TimeoutWhileQueuedSkipsFn(t *testing.T) {
	m := New(&Config{WriteTimeout: 30 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), "Product:3", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var ran atomic.Bool
	err := m.Execute(context.Background(), "Product:3", func() error {
		ran.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, ErrWriteTimeout)

	close(release)
	assert.NoError(t, m.Execute(context.Background(), "Product:3", func() error { return nil }))
	assert.False(t, ran.Load())
}

func TestManager_StartedWriteOutlivesTimeout(t *testing.T) {
	m := New(&Config{WriteTimeout: 20 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	var done atomic.Bool
	err := m.Execute(context.Background(), "Stock:4", func() error {
		time.Sleep(100 * time.Millisecond)
		done.Store(true)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, done.Load())

	ctx, cancel := context.WithCancel(context.Background())
	err = m.Execute(ctx, "Stock:4", func() error {
		cancel()
		time.Sleep(20 * time.Millisecond)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
