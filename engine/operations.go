package engine

import (
	"go.uber.org/zap"

	"github.com/RahulVervebot/pims-sub002/logic"
)

// Op names the engine call that produced an event.
type Op string

const (
	OpHydrate  Op = "hydrate"
	OpAdd      Op = "add"
	OpIncrease Op = "increase"
	OpDecrease Op = "decrease"
	OpRemove   Op = "remove"
	OpClear    Op = "clear"
)

// AddOrIncrement inserts payload as a new line with quantity 1, or bumps the
// quantity of the line with the same product id. A payload without a usable
// product id is rejected with an invalid-argument CommandError and the
// collection is left as it was.
func (e *Engine) AddOrIncrement(payload logic.Payload) (logic.Change, error) {
	id, err := logic.RequireProductID(payload)
	if err != nil {
		e.log.Debug("add rejected", zap.Error(err))
		return logic.Change{}, err
	}
	return e.apply(OpAdd, id, func(c logic.Collection) (logic.Collection, logic.Change) {
		return c.UpsertIncrement(id, payload)
	}), nil
}

// IncreaseQuantity adds one to the line with the given product id. Unknown
// ids are a no-op. id may be a ProductID, a string or a number.
func (e *Engine) IncreaseQuantity(id any) logic.Change {
	pid, ok := logic.NormalizeProductID(id)
	if !ok {
		return logic.Change{}
	}
	return e.apply(OpIncrease, pid, func(c logic.Collection) (logic.Collection, logic.Change) {
		return c.Increment(pid)
	})
}

// DecreaseQuantity subtracts one from the line with the given product id,
// removing the line when its quantity would drop below one.
func (e *Engine) DecreaseQuantity(id any) logic.Change {
	pid, ok := logic.NormalizeProductID(id)
	if !ok {
		return logic.Change{}
	}
	return e.apply(OpDecrease, pid, func(c logic.Collection) (logic.Collection, logic.Change) {
		return c.Decrement(pid)
	})
}

// Remove deletes the line with the given product id.
func (e *Engine) Remove(id any) logic.Change {
	pid, ok := logic.NormalizeProductID(id)
	if !ok {
		return logic.Change{}
	}
	return e.apply(OpRemove, pid, func(c logic.Collection) (logic.Collection, logic.Change) {
		return c.Remove(pid)
	})
}

// Clear empties the collection. The empty state is persisted even when the
// collection was already empty, so a stale stored copy cannot survive it.
func (e *Engine) Clear() logic.Change {
	return e.apply(OpClear, "", func(c logic.Collection) (logic.Collection, logic.Change) {
		return c.Clear()
	})
}

func (e *Engine) apply(op Op, id logic.ProductID, fn func(logic.Collection) (logic.Collection, logic.Change)) logic.Change {
	e.mu.Lock()
	next, change := fn(e.coll)
	if !change.Changed() && op != OpClear {
		e.mu.Unlock()
		e.log.Debug("no-op",
			zap.String("op", string(op)),
			zap.String("product_id", id.String()),
		)
		return change
	}

	e.mutated = true
	e.coll = next
	e.version++
	version := e.version
	accepted := e.writer.enqueue(version, next)
	e.events = append(e.events, event{op: op, coll: next, version: version, change: change})
	e.drainLocked()

	e.log.Debug("collection changed",
		zap.String("op", string(op)),
		zap.Stringer("change", change.Kind),
		zap.String("product_id", change.ProductID.String()),
		zap.Int("quantity", change.Quantity),
		zap.Uint64("version", version),
	)
	if !accepted {
		e.log.Warn("change not persisted, engine closed",
			zap.String("op", string(op)),
			zap.Uint64("version", version),
		)
		e.diag(ErrClosed)
	}
	return change
}
