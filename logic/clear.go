package logic

// Clear returns an empty collection. Clearing an empty collection reports
// ChangeNone.
func (c Collection) Clear() (Collection, Change) {
	if len(c.items) == 0 {
		return EmptyCollection(), Change{Kind: ChangeNone}
	}
	return EmptyCollection(), Change{Kind: ChangeCleared, Cleared: len(c.items)}
}
