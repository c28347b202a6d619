// Package quorum recounts a space's live membership rows whenever a
// membership change event arrives, keeping cached quorum counts honest.
package quorum

import (
	"context"
	"log"
)

// Counter counts live membership rows for a space.
type Counter interface {
	CountMembers(ctx context.Context, spaceID string) (int64, error)
}

// Cache receives the recomputed count.
type Cache interface {
	SetQuorum(spaceID string, count int)
}

// WorkerPool manages a pool of workers performing membership recounts.
type WorkerPool struct {
	size    int
	jobs    chan string
	counter Counter
	cache   Cache
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, counter Counter, cache Cache) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size), // Buffered channel
		counter: counter,
		cache:   cache,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// Dispatch sends a recount job to the worker pool.
func (wp *WorkerPool) Dispatch(spaceID string) {
	wp.jobs <- spaceID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	for {
		select {
		case spaceID := <-wp.jobs:
			wp.recount(ctx, spaceID)
		case <-ctx.Done():
			log.Printf("Quorum worker %d shutting down", id)
			return
		}
	}
}

// recount re-fetches the membership count for one space and writes it back
// to the cache. Failures are logged and left for the next event or refresh.
func (wp *WorkerPool) recount(ctx context.Context, spaceID string) {
	count, err := wp.counter.CountMembers(ctx, spaceID)
	if err != nil {
		log.Printf("Error recounting members for space %s: %v", spaceID, err)
		return
	}
	wp.cache.SetQuorum(spaceID, int(count))
}
