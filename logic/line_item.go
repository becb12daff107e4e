package logic

import "github.com/google/uuid"

// LineItem is one product's entry in a collection.
type LineItem struct {
	LineID    uuid.UUID
	ProductID ProductID
	Quantity  int
	Payload   Payload
}

// Clone returns a copy of the item whose payload does not alias the original.
func (i LineItem) Clone() LineItem {
	i.Payload = i.Payload.Clone()
	return i
}

// Valid reports whether the item satisfies the collection invariants on its
// own: a usable identity and a quantity of at least one.
func (i LineItem) Valid() bool {
	return i.ProductID != "" && i.Quantity >= 1
}

// newLineID is swapped in tests that need deterministic line ids.
var newLineID = uuid.New
