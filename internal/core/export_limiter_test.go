package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportLimiter_AcquireRelease(t *testing.T) {
	limiter := NewExportLimiter(2, time.Second)
	ctx := context.Background()

	assert.Equal(t, 0, limiter.ActiveCount())
	assert.Equal(t, 2, limiter.Available())

	require.NoError(t, limiter.Acquire(ctx))
	require.NoError(t, limiter.Acquire(ctx))
	assert.Equal(t, 2, limiter.ActiveCount())
	assert.Equal(t, 0, limiter.Available())

	limiter.Release()
	assert.Equal(t, 1, limiter.ActiveCount())
	assert.Equal(t, 1, limiter.Available())

	limiter.Release()
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestExportLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewExportLimiter(1, 20*time.Millisecond)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	err := limiter.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrTooManyExports)
	assert.Equal(t, KindUnavailable, KindOf(err))
}

func TestExportLimiter_ContextCancelled(t *testing.T) {
	limiter := NewExportLimiter(1, time.Minute)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, limiter.Acquire(ctx), context.Canceled)
}

func TestExportLimiter_WaiterGetsFreedSlot(t *testing.T) {
	limiter := NewExportLimiter(1, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))

	errCh := make(chan error, 1)
	go func() { errCh <- limiter.Acquire(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	limiter.Release()

	require.NoError(t, <-errCh)
	assert.Equal(t, 1, limiter.ActiveCount())
	limiter.Release()
}

func TestExportLimiter_Defaults(t *testing.T) {
	limiter := NewExportLimiter(0, 0)
	assert.Equal(t, DefaultMaxConcurrentExports, limiter.Available())
	assert.Equal(t, DefaultExportMaxWait, limiter.maxWait)
}

func TestExportLimiter_NeverExceedsMax(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewExportLimiter(maxConcurrent, time.Second)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		current int
		peak    int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Error(err)
				return
			}
			defer limiter.Release()

			mu.Lock()
			current++
			if current > peak {
				peak = current
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			current--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, maxConcurrent)
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestExportLimiter_WaitForDrain(t *testing.T) {
	limiter := NewExportLimiter(1, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))

	go func() {
		time.Sleep(20 * time.Millisecond)
		limiter.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, limiter.WaitForDrain(ctx))
}

func TestExportLimiter_WaitForDrainTimeout(t *testing.T) {
	limiter := NewExportLimiter(1, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, limiter.WaitForDrain(ctx), context.DeadlineExceeded)
}
