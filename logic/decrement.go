package logic

// Decrement removes one unit from an existing item. An item holding a single
// unit is removed from the collection rather than kept at zero. Absent ids
// are a no-op.
func (c Collection) Decrement(id ProductID) (Collection, Change) {
	idx := c.indexOf(id)
	if idx < 0 {
		return c, Change{Kind: ChangeNone, ProductID: id}
	}
	prev := c.items[idx].Quantity
	if prev <= 1 {
		return c.without(idx), Change{
			Kind:      ChangeRemoved,
			ProductID: id,
			Previous:  prev,
		}
	}
	return c.withQuantity(idx, prev-1), Change{
		Kind:      ChangeQuantity,
		ProductID: id,
		Quantity:  prev - 1,
		Previous:  prev,
	}
}
