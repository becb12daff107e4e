package logic

// Remove drops the item with the given identity. Removing an absent id is a
// no-op, which makes Remove idempotent.
func (c Collection) Remove(id ProductID) (Collection, Change) {
	idx := c.indexOf(id)
	if idx < 0 {
		return c, Change{Kind: ChangeNone, ProductID: id}
	}
	prev := c.items[idx].Quantity
	return c.without(idx), Change{
		Kind:      ChangeRemoved,
		ProductID: id,
		Previous:  prev,
	}
}
