package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/RahulVervebot/pims-sub002/logic"
)

// Hydrate loads the collection from the store. It is meant to run once, at
// startup, before the UI mutates anything.
//
// A missing or unreadable stored collection is not an error: the engine
// starts empty, logs the cause and reports it to the diagnostics callback.
// If a mutation got in before Hydrate finished, the loaded state is
// discarded so that the newer in-memory state stays authoritative.
func (e *Engine) Hydrate(ctx context.Context) error {
	e.mu.Lock()
	if e.hydrated {
		e.mu.Unlock()
		return ErrAlreadyHydrated
	}
	e.hydrated = true
	e.mu.Unlock()

	items, err := e.store.Load(ctx, e.key)
	if err != nil {
		e.log.Warn("hydrate failed, starting empty", zap.Error(err))
		items = nil
	}
	coll := logic.NewCollection(items)

	e.mu.Lock()
	e.hydrateErr = err
	if e.mutated {
		e.mu.Unlock()
		e.log.Warn("collection mutated before hydrate finished, keeping in-memory state",
			zap.Int("discarded_items", coll.Len()),
		)
		e.diag(err)
		return nil
	}
	e.coll = coll
	e.version++
	e.events = append(e.events, event{op: OpHydrate, coll: coll, version: e.version})
	e.drainLocked()

	e.log.Info("collection hydrated",
		zap.Int("items", coll.Len()),
		zap.Int("total_quantity", coll.TotalQuantity()),
	)
	e.diag(err)
	return nil
}
