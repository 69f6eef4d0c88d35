// Package repository provides the counter store for statistics module.
package repository

import (
	"context"
	"sync"

	"github.com/festy23/trip_publisher/internal/statistics/model"
)

// Repository defines the interface for statistics storage.
type Repository interface {
	// Add increases the counter of event by n.
	Add(ctx context.Context, event model.Event, n int64)

	// Counts returns a copy of every counter.
	Counts(ctx context.Context) map[model.Event]int64
}

type repository struct {
	mu     sync.RWMutex
	counts map[model.Event]int64
}

// New creates an in-memory statistics repository.
func New() Repository {
	return &repository{counts: make(map[model.Event]int64)}
}

// Add increases the counter of event by n. Non-positive n is ignored.
func (r *repository) Add(_ context.Context, event model.Event, n int64) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	r.counts[event] += n
	r.mu.Unlock()
}

// Counts returns a copy of every counter.
func (r *repository) Counts(_ context.Context) map[model.Event]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[model.Event]int64, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}
