package core

// export_limiter.go bounds how many CSV exports render at once.
//
// An export reads a whole dataset into memory, so a burst of exports can hold
// many full tables at the same time. The limiter is a semaphore: when every
// slot is taken a caller waits up to maxWait and then fails with
// ErrTooManyExports.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyExports is returned when no export slot frees up in time.
var ErrTooManyExports = errors.New("too many concurrent exports, please try again later")

// Limiter defaults.
const (
	DefaultMaxConcurrentExports = 4
	DefaultExportMaxWait        = 10 * time.Second
)

// ExportLimiter controls concurrent export rendering.
type ExportLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewExportLimiter allows at most maxConcurrent simultaneous exports.
// Non-positive arguments fall back to the defaults.
func NewExportLimiter(maxConcurrent int, maxWait time.Duration) *ExportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentExports
	}
	if maxWait <= 0 {
		maxWait = DefaultExportMaxWait
	}

	return &ExportLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot, waiting up to maxWait. The caller must Release a
// slot it acquired.
func (l *ExportLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyExports
	}
}

// Release frees a slot taken by Acquire.
func (l *ExportLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of exports currently rendering.
func (l *ExportLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Available returns the number of free slots.
func (l *ExportLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no export is rendering or ctx is done. Used on
// shutdown so an in-flight download is not cut off.
func (l *ExportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
