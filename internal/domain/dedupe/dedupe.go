// Package dedupe tracks recently seen client request ids so a retried
// mutation is applied at most once.
package dedupe

import (
	"context"
	"sync"

	"github.com/okian/regrow/pkg/metrics"
)

const defaultWindow = 1024

// Deduper records request ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it if
	// not. Empty ids are never recorded and never reported as seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Forget removes id so the request can be retried, used when the
	// mutation it guarded was rejected.
	Forget(ctx context.Context, id string)

	Size() int
}

// window keeps the last N ids in a ring; the oldest id is evicted first.
type window struct {
	mu   sync.Mutex
	ring []string
	next int
	seen map[string]int // id -> ring slot
}

// New creates a bounded in-memory deduper.
func New(opts ...Option) Deduper {
	w := &window{ring: make([]string, defaultWindow)}
	for _, opt := range opts {
		opt(w)
	}
	w.seen = make(map[string]int, len(w.ring))
	return w
}

func (w *window) SeenAndRecord(_ context.Context, id string) bool {
	if id == "" {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.seen[id]; ok {
		metrics.RecordDuplicateRequest()
		return true
	}
	if old := w.ring[w.next]; old != "" {
		delete(w.seen, old)
	}
	w.ring[w.next] = id
	w.seen[id] = w.next
	w.next = (w.next + 1) % len(w.ring)
	return false
}

func (w *window) Forget(_ context.Context, id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	slot, ok := w.seen[id]
	if !ok {
		return
	}
	delete(w.seen, id)
	w.ring[slot] = ""
}

func (w *window) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}
