// Package dedupe tracks keys that have already been processed.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen keys to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so that it can be recorded again.
	Unrecord(ctx context.Context, key string)

	// Seen reports whether key is recorded without recording it.
	Seen(ctx context.Context, key string) bool

	// Reset forgets every key.
	Reset(ctx context.Context)

	Size() int64
}

// inMemoryDeduper keeps every key for the life of the process. It never
// evicts: an evicted key would be processed a second time.
type inMemoryDeduper struct {
	mu       sync.RWMutex
	seen     map[string]struct{}
	capacity int
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	delete(d.seen, key)
	d.mu.Unlock()
}

func (d *inMemoryDeduper) Seen(_ context.Context, key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.seen[key]
	return ok
}

func (d *inMemoryDeduper) Reset(_ context.Context) {
	d.mu.Lock()
	d.seen = make(map[string]struct{}, d.capacity)
	d.mu.Unlock()
}

// Size returns the current number of recorded keys.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.seen))
}
