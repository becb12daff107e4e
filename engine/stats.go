package engine

// Stats reports the state of an engine for diagnostics.
type Stats struct {
	Key              string
	Version          uint64
	Items            int
	TotalQuantity    int
	Subscribers      int
	Hydrated         bool
	HydrateError     error
	PersistedVersion uint64
	PendingWrites    bool
	PersistFailures  uint64
	LastPersistError error
}

// Stats returns a point-in-time view of the engine and its writer.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	s := Stats{
		Key:           e.key,
		Version:       e.version,
		Items:         e.coll.Len(),
		TotalQuantity: e.coll.TotalQuantity(),
		Hydrated:      e.hydrated,
		HydrateError:  e.hydrateErr,
	}
	e.mu.Unlock()

	ws := e.writer.stats()
	s.PersistedVersion = ws.written
	s.PendingWrites = ws.written < ws.queued
	s.PersistFailures = ws.failures
	s.LastPersistError = ws.lastErr
	s.Subscribers = e.Subscribers()
	return s
}

// LastPersistError returns the error from the most recent failed save, or
// nil if no save has failed.
func (e *Engine) LastPersistError() error {
	return e.writer.stats().lastErr
}
