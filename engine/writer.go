package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/RahulVervebot/pims-sub002/logic"
)

type job struct {
	version uint64
	coll    logic.Collection
}

// writer persists the latest collection state on its own goroutine. States
// queued while a save is in flight are coalesced, so only the newest is
// written next.
type writer struct {
	key   string
	store Store
	log   *zap.Logger
	onErr func(error)

	wake chan struct{}
	done chan struct{}

	mu       sync.Mutex
	pending  *job
	queued   uint64
	written  uint64
	progress chan struct{}
	closed   bool
	failures uint64
	lastErr  error
}

func newWriter(key string, store Store, log *zap.Logger, onErr func(error)) *writer {
	return &writer{
		key:      key,
		store:    store,
		log:      log,
		onErr:    onErr,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		progress: make(chan struct{}),
	}
}

// enqueue replaces any pending state with coll. It reports false once the
// writer has been closed.
func (w *writer) enqueue(version uint64, coll logic.Collection) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	if w.pending != nil {
		w.log.Debug("coalesced pending write",
			zap.Uint64("dropped_version", w.pending.version),
			zap.Uint64("version", version),
		)
	}
	w.pending = &job{version: version, coll: coll}
	w.queued = version
	w.mu.Unlock()
	w.signal()
	return true
}

func (w *writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		j := w.pending
		w.pending = nil
		closed := w.closed
		w.mu.Unlock()

		if j == nil {
			if closed {
				return
			}
			<-w.wake
			continue
		}
		w.save(j)
	}
}

func (w *writer) save(j *job) {
	// Saves are not tied to any caller, so they run to completion.
	err := w.store.Save(context.Background(), w.key, j.coll.Items())
	if err != nil {
		w.log.Error("persist failed",
			zap.Uint64("version", j.version),
			zap.Int("items", j.coll.Len()),
			zap.Error(err),
		)
		if w.onErr != nil {
			w.onErr(err)
		}
	} else {
		w.log.Debug("persisted",
			zap.Uint64("version", j.version),
			zap.Int("items", j.coll.Len()),
		)
	}

	w.mu.Lock()
	w.written = j.version
	if err != nil {
		w.failures++
		w.lastErr = err
	}
	close(w.progress)
	w.progress = make(chan struct{})
	w.mu.Unlock()
}

func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.queued
	for w.written < target {
		ch := w.progress
		w.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		w.mu.Lock()
	}
	w.mu.Unlock()
	return nil
}

func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	already := w.closed
	w.closed = true
	w.mu.Unlock()
	if !already {
		w.signal()
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type writerStats struct {
	queued   uint64
	written  uint64
	failures uint64
	lastErr  error
}

func (w *writer) stats() writerStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return writerStats{
		queued:   w.queued,
		written:  w.written,
		failures: w.failures,
		lastErr:  w.lastErr,
	}
}
