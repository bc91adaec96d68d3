package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsDispatchedJobs(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 2, QueueSize: 8, TaskTimeout: time.Second}, zerolog.Nop())
	pool.Start(context.Background())

	var (
		wg    sync.WaitGroup
		count atomic.Int32
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.True(t, pool.Dispatch("count", func(ctx context.Context) error {
			defer wg.Done()
			count.Add(1)
			return nil
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(5), count.Load())
	pool.Stop(time.Second)
}

func TestPoolDropsWhenFull(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, QueueSize: 1}, zerolog.Nop())

	assert.True(t, pool.Dispatch("a", func(ctx context.Context) error { return nil }))
	assert.False(t, pool.Dispatch("b", func(ctx context.Context) error { return nil }))
	pool.Stop(time.Second)
}

func TestPoolRejectsAfterStop(t *testing.T) {
	pool := NewPool(Config{}, zerolog.Nop())
	pool.Start(context.Background())
	pool.Stop(time.Second)
	pool.Stop(time.Second)

	assert.False(t, pool.Dispatch("late", func(ctx context.Context) error { return nil }))
}

func TestPoolDrainsQueueOnStop(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, QueueSize: 4}, zerolog.Nop())
	var count atomic.Int32
	for i := 0; i < 3; i++ {
		require.True(t, pool.Dispatch("drain", func(ctx context.Context) error {
			count.Add(1)
			return nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()
	pool.Stop(time.Second)
	assert.Equal(t, int32(3), count.Load())
}

func TestPoolSurvivesFailingAndPanickingJobs(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, QueueSize: 4}, zerolog.Nop())
	pool.Start(context.Background())

	done := make(chan struct{})
	pool.Dispatch("fail", func(ctx context.Context) error { return errors.New("boom") })
	pool.Dispatch("panic", func(ctx context.Context) error { panic("bad") })
	pool.Dispatch("after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive failing jobs")
	}
	pool.Stop(time.Second)
}

func TestJobContextHasTimeout(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, TaskTimeout: 20 * time.Millisecond}, zerolog.Nop())
	pool.Start(context.Background())

	result := make(chan error, 1)
	pool.Dispatch("slow", func(ctx context.Context) error {
		<-ctx.Done()
		result <- ctx.Err()
		return ctx.Err()
	})

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("job context never expired")
	}
	pool.Stop(time.Second)
}
