package logic

// ChangeKind classifies the effect of a collection operation.
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	ChangeAdded
	ChangeQuantity
	ChangeRemoved
	ChangeCleared
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeNone:
		return "none"
	case ChangeAdded:
		return "added"
	case ChangeQuantity:
		return "quantity"
	case ChangeRemoved:
		return "removed"
	case ChangeCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Change describes what a single operation did to a collection.
type Change struct {
	Kind      ChangeKind
	ProductID ProductID
	// Quantity is the item's quantity after the operation, zero once removed.
	Quantity int
	// Previous is the item's quantity before the operation, zero if absent.
	Previous int
	// Cleared is the number of items dropped by a clear.
	Cleared int
}

// Changed reports whether the operation altered the collection.
func (c Change) Changed() bool {
	return c.Kind != ChangeNone
}
