package engine

import "github.com/RahulVervebot/pims-sub002/logic"

// Snapshot is a private copy of a collection at one version. Changing it
// never affects the engine or other snapshots.
type Snapshot struct {
	Key     string
	Version uint64
	Items   []logic.LineItem
}

func newSnapshot(key string, version uint64, c logic.Collection) Snapshot {
	return Snapshot{Key: key, Version: version, Items: c.Items()}
}

// Snapshot returns a copy of the current collection.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	coll, version := e.coll, e.version
	e.mu.Unlock()
	return newSnapshot(e.key, version, coll)
}

func (s Snapshot) Len() int {
	return len(s.Items)
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s Snapshot) TotalQuantity() int {
	total := 0
	for _, it := range s.Items {
		total += it.Quantity
	}
	return total
}

// Find returns the line for id, normalizing id the way payload ids are.
func (s Snapshot) Find(id any) (logic.LineItem, bool) {
	pid, ok := logic.NormalizeProductID(id)
	if !ok {
		return logic.LineItem{}, false
	}
	for _, it := range s.Items {
		if it.ProductID == pid {
			return it, true
		}
	}
	return logic.LineItem{}, false
}

// Quantity returns the quantity held for id, or zero.
func (s Snapshot) Quantity(id any) int {
	it, ok := s.Find(id)
	if !ok {
		return 0
	}
	return it.Quantity
}
