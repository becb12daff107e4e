package logic

// Increment adds one unit to an existing item. Absent ids are a no-op.
func (c Collection) Increment(id ProductID) (Collection, Change) {
	idx := c.indexOf(id)
	if idx < 0 {
		return c, Change{Kind: ChangeNone, ProductID: id}
	}
	prev := c.items[idx].Quantity
	return c.withQuantity(idx, prev+1), Change{
		Kind:      ChangeQuantity,
		ProductID: id,
		Quantity:  prev + 1,
		Previous:  prev,
	}
}
