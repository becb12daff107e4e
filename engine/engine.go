// Package engine owns one line-item collection: its mutation API, its
// write-behind persistence, and the broadcast of snapshots to subscribers.
//
// Every mutation is applied to the in-memory collection under a lock, so two
// rapid calls always build on each other. The new state is then handed to a
// background writer and broadcast to subscribers before the call returns. The
// writer stores only the latest state, so the durable copy may lag behind
// memory but never regresses; Flush waits for it to catch up.
package engine

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/RahulVervebot/pims-sub002/logic"
)

var (
	// ErrAlreadyHydrated is returned by a second call to Hydrate.
	ErrAlreadyHydrated error = logic.NewFailedPrecondition(logic.ErrMsgAlreadyHydrated)
	// ErrClosed is reported when a change reaches an engine whose writer has
	// stopped. The in-memory collection still reflects the change.
	ErrClosed = errors.New("engine: closed, change kept in memory only")
)

// Store is the durable side of an engine. Load must always return a usable
// slice; a non-nil error is treated as a diagnostic.
type Store interface {
	Load(ctx context.Context, key string) ([]logic.LineItem, error)
	Save(ctx context.Context, key string, items []logic.LineItem) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithDiagnostics registers a callback for non-fatal persistence errors. It
// runs on the writer goroutine for save failures and on the calling
// goroutine for hydrate failures.
func WithDiagnostics(fn func(error)) Option {
	return func(e *Engine) {
		e.onDiag = fn
	}
}

// Engine is the single owner of one collection and its store key.
type Engine struct {
	key    string
	store  Store
	log    *zap.Logger
	onDiag func(error)
	writer *writer

	mu         sync.Mutex
	coll       logic.Collection
	version    uint64
	hydrated   bool
	mutated    bool
	hydrateErr error
	events     []event
	draining   bool

	subsMu  sync.Mutex
	subs    []subscription
	nextSub uint64
}

// New creates an engine for the collection stored under key and starts its
// writer. The collection starts empty until Hydrate is called.
func New(key string, store Store, opts ...Option) *Engine {
	e := &Engine{
		key:   key,
		store: store,
		log:   zap.NewNop(),
		coll:  logic.EmptyCollection(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(zap.String("collection", key))
	e.writer = newWriter(key, store, e.log, e.diag)
	go e.writer.run()
	return e
}

// Open creates an engine and hydrates it from the store.
func Open(ctx context.Context, key string, store Store, opts ...Option) *Engine {
	e := New(key, store, opts...)
	// A fresh engine cannot already be hydrated.
	_ = e.Hydrate(ctx)
	return e
}

// Key returns the store key this engine owns.
func (e *Engine) Key() string {
	return e.key
}

// Flush blocks until every change made before the call has been handed to
// the store, or ctx is done.
func (e *Engine) Flush(ctx context.Context) error {
	return e.writer.flush(ctx)
}

// Close flushes pending changes and stops the writer. Later mutations still
// update memory and subscribers but are reported as ErrClosed diagnostics.
func (e *Engine) Close(ctx context.Context) error {
	return e.writer.close(ctx)
}

func (e *Engine) diag(err error) {
	if err == nil || e.onDiag == nil {
		return
	}
	e.onDiag(err)
}
