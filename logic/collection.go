package logic

import "github.com/google/uuid"

// Collection is an ordered, deduplicated sequence of line items.
//
// A Collection is a value: every operation returns a new Collection and
// leaves the receiver untouched, so a previously returned value can be handed
// out as a snapshot without copying on every mutation. Payload maps are
// shared between versions and are never modified in place.
type Collection struct {
	items []LineItem
}

// EmptyCollection returns a collection with no items.
func EmptyCollection() Collection {
	return Collection{}
}

// NewCollection builds a collection from previously persisted items. Items
// that violate the invariants are repaired by Normalize.
func NewCollection(items []LineItem) Collection {
	cloned := make([]LineItem, len(items))
	for i, item := range items {
		cloned[i] = item.Clone()
	}
	normalized, _ := Normalize(cloned)
	return Collection{items: normalized}
}

// Len returns the number of distinct products.
func (c Collection) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the collection holds no items.
func (c Collection) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns deep copies of the items in insertion order.
func (c Collection) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out
}

// Find returns a copy of the item with the given identity.
func (c Collection) Find(id ProductID) (LineItem, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return c.items[idx].Clone(), true
}

// Quantity returns the quantity held for id, zero when absent.
func (c Collection) Quantity(id ProductID) int {
	idx := c.indexOf(id)
	if idx < 0 {
		return 0
	}
	return c.items[idx].Quantity
}

// TotalQuantity sums the quantities of all items.
func (c Collection) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c Collection) indexOf(id ProductID) int {
	if id == "" {
		return -1
	}
	for i := range c.items {
		if c.items[i].ProductID == id {
			return i
		}
	}
	return -1
}

// withQuantity returns a copy of c where the item at idx has quantity q.
func (c Collection) withQuantity(idx, q int) Collection {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	items[idx].Quantity = q
	return Collection{items: items}
}

// without returns a copy of c with the item at idx removed.
func (c Collection) without(idx int) Collection {
	items := make([]LineItem, 0, len(c.items)-1)
	items = append(items, c.items[:idx]...)
	items = append(items, c.items[idx+1:]...)
	return Collection{items: items}
}

// Normalize enforces the collection invariants on an arbitrary item slice:
// items without an identity or with a quantity below one are dropped, and
// repeated identities are merged into the first occurrence by summing their
// quantities. Items stored without a line id receive a fresh one. It returns
// the repaired slice and the number of input items that did not survive as
// distinct entries.
func Normalize(items []LineItem) ([]LineItem, int) {
	out := make([]LineItem, 0, len(items))
	index := make(map[ProductID]int, len(items))
	dropped := 0
	for _, item := range items {
		if !item.Valid() {
			dropped++
			continue
		}
		if idx, ok := index[item.ProductID]; ok {
			out[idx].Quantity += item.Quantity
			dropped++
			continue
		}
		if item.Payload == nil {
			item.Payload = Payload{}
		}
		if item.LineID == uuid.Nil {
			item.LineID = newLineID()
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out, dropped
}
