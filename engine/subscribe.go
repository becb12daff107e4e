package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/RahulVervebot/pims-sub002/logic"
)

// Event is delivered to subscribers after every state change.
type Event struct {
	Op       Op
	Change   logic.Change
	Snapshot Snapshot
}

// Listener receives events in the order the changes were applied.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}

type event struct {
	op      Op
	coll    logic.Collection
	version uint64
	change  logic.Change
}

// Subscribe registers l and returns a function that unregisters it. The
// returned function is safe to call more than once.
//
// Listeners run synchronously on the goroutine that made the change. A
// listener may call back into the engine; a change it makes is delivered
// once the current event has reached every listener.
//
// While one goroutine is delivering events, a change made on another
// goroutine returns without waiting for its own event. The delivering
// goroutine broadcasts it afterwards, still in change order.
func (e *Engine) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	e.subsMu.Lock()
	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscription{id: id, fn: l})
	e.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.unsubscribe(id) })
	}
}

func (e *Engine) unsubscribe(id uint64) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of registered listeners.
func (e *Engine) Subscribers() int {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	return len(e.subs)
}

// drainLocked delivers queued events in order. It must be called with e.mu
// held and returns with it released. Only one goroutine drains at a time;
// events queued meanwhile are picked up by the drainer.
func (e *Engine) drainLocked() {
	if e.draining {
		e.mu.Unlock()
		return
	}
	e.draining = true
	for len(e.events) > 0 {
		ev := e.events[0]
		e.events[0] = event{}
		e.events = e.events[1:]
		e.mu.Unlock()
		e.publish(ev)
		e.mu.Lock()
	}
	e.events = nil
	e.draining = false
	e.mu.Unlock()
}

func (e *Engine) publish(ev event) {
	e.subsMu.Lock()
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.subsMu.Unlock()

	for _, s := range subs {
		e.deliver(s, Event{
			Op:       ev.op,
			Change:   ev.change,
			Snapshot: newSnapshot(e.key, ev.version, ev.coll),
		})
	}
}

func (e *Engine) deliver(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("subscriber panicked",
				zap.Uint64("subscriber", s.id),
				zap.String("op", string(ev.Op)),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	s.fn(ev)
}
