// Package writeback persists aggregate snapshots asynchronously through a
// single writer goroutine.
//
// Submit never blocks the caller. When the queue is full the oldest pending
// snapshot is dropped; each snapshot is a full aggregate, so the newest one
// supersedes everything queued before it.
package writeback

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/regrow/internal/domain/model"
	"github.com/okian/regrow/pkg/logger"
	"github.com/okian/regrow/pkg/metrics"
)

const defaultQueueSize = 16

// Saver writes one snapshot.
type Saver interface {
	Save(ctx context.Context, state model.ProtocolState) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, state model.ProtocolState) error

// Save calls f.
func (f SaverFunc) Save(ctx context.Context, state model.ProtocolState) error { return f(ctx, state) }

type snapshot struct {
	seq   uint64
	state model.ProtocolState
}

// Writer owns the pending queue and the writer goroutine.
type Writer struct {
	saver   Saver
	size    int
	pending chan snapshot
	logger  logger.Logger

	mu        sync.Mutex
	closed    bool
	started   bool
	submitted uint64
	processed uint64
	progress  chan struct{} // closed and replaced whenever processed advances

	done chan struct{}
}

// New creates a writer. Call Start before submitting.
func New(saver Saver, opts ...Option) *Writer {
	w := &Writer{
		saver:    saver,
		size:     defaultQueueSize,
		progress: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("writeback")
	}
	w.pending = make(chan snapshot, w.size)
	return w
}

// Start launches the writer goroutine. Saves use ctx.
func (w *Writer) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.run(ctx)
}

// Submit queues a snapshot. It returns ErrClosed after Close.
func (w *Writer) Submit(state model.ProtocolState) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.submitted++
	s := snapshot{seq: w.submitted, state: state}
	for {
		select {
		case w.pending <- s:
			metrics.UpdateWritebackPending(len(w.pending))
			return nil
		default:
		}
		// Full: drop the oldest pending snapshot. Only Submit sends, under mu,
		// so the retry finds room unless the writer raced us to it.
		select {
		case old := <-w.pending:
			w.markProcessed(old.seq)
			metrics.RecordWritebackSuperseded()
		default:
		}
	}
}

func (w *Writer) run(ctx context.Context) {
	defer close(w.done)
	for s := range w.pending {
		// Coalesce: only the newest queued snapshot needs writing.
		for drained := false; !drained; {
			select {
			case next, ok := <-w.pending:
				if !ok {
					drained = true
					break
				}
				metrics.RecordWritebackSuperseded()
				s = next
			default:
				drained = true
			}
		}
		metrics.UpdateWritebackPending(len(w.pending))

		if err := w.saver.Save(ctx, s.state); err != nil {
			metrics.RecordErrorByComponent("writeback", "save_failed")
			w.logger.Error(ctx, "failed to persist state", logger.Error(err))
		}
		w.mu.Lock()
		w.markProcessed(s.seq)
		w.mu.Unlock()
	}
}

// markProcessed must be called with mu held.
func (w *Writer) markProcessed(seq uint64) {
	if seq <= w.processed {
		return
	}
	w.processed = seq
	close(w.progress)
	w.progress = make(chan struct{})
}

// Flush waits until every snapshot submitted before the call has been
// written or superseded.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.submitted
	w.mu.Unlock()
	for {
		w.mu.Lock()
		if w.processed >= target {
			w.mu.Unlock()
			return nil
		}
		ch := w.progress
		w.mu.Unlock()

		select {
		case <-ch:
		case <-w.done:
			// Writer exited; it drained the queue before closing done.
			return nil
		case <-ctx.Done():
			return fmt.Errorf("flush: %w", ctx.Err())
		}
	}
}

// Close stops accepting snapshots, writes what is pending and waits for
// the writer to exit.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.pending)
	started := w.started
	w.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "writeback shutdown timed out")
		return fmt.Errorf("writeback shutdown timed out: %w", ctx.Err())
	}
}

// Pending returns the number of queued snapshots.
func (w *Writer) Pending() int { return len(w.pending) }
