package logic

// UpsertIncrement adds one unit of the product identified by id. An existing
// item keeps its payload and gains one unit; otherwise a new item with
// quantity one and a copy of payload is appended. An empty id leaves the
// collection unchanged so that no unkeyed entry is ever stored.
func (c Collection) UpsertIncrement(id ProductID, payload Payload) (Collection, Change) {
	if id == "" {
		return c, Change{Kind: ChangeNone}
	}
	if idx := c.indexOf(id); idx >= 0 {
		prev := c.items[idx].Quantity
		return c.withQuantity(idx, prev+1), Change{
			Kind:      ChangeQuantity,
			ProductID: id,
			Quantity:  prev + 1,
			Previous:  prev,
		}
	}

	items := make([]LineItem, len(c.items), len(c.items)+1)
	copy(items, c.items)
	items = append(items, LineItem{
		LineID:    newLineID(),
		ProductID: id,
		Quantity:  1,
		Payload:   snapshotPayload(payload),
	})
	return Collection{items: items}, Change{
		Kind:      ChangeAdded,
		ProductID: id,
		Quantity:  1,
	}
}
