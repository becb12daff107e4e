package logic

import (
	"testing"

	"github.com/google/uuid"
)

func productPayload(id string, price float64) Payload {
	return Payload{FieldProductID: id, "name": "Product " + id, "price": price}
}

func quantities(c Collection) map[ProductID]int {
	out := make(map[ProductID]int, c.Len())
	for _, item := range c.Items() {
		out[item.ProductID] = item.Quantity
	}
	return out
}

func order(c Collection) []ProductID {
	var out []ProductID
	for _, item := range c.Items() {
		out = append(out, item.ProductID)
	}
	return out
}

func TestUpsertIncrement_EmptyCollection(t *testing.T) {
	c, change := EmptyCollection().UpsertIncrement("P1", productPayload("P1", 10))

	if c.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", c.Len())
	}
	item, ok := c.Find("P1")
	if !ok {
		t.Fatal("expected P1 to be present")
	}
	if item.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", item.Quantity)
	}
	if item.Payload["price"] != 10.0 {
		t.Errorf("expected price 10, got %v", item.Payload["price"])
	}
	if item.LineID == uuid.Nil {
		t.Error("expected a line id to be assigned")
	}
	if change.Kind != ChangeAdded || change.Quantity != 1 {
		t.Errorf("unexpected change %+v", change)
	}
}

func TestUpsertIncrement_SameIDAccumulates(t *testing.T) {
	c := EmptyCollection()
	for i := 0; i < 5; i++ {
		c, _ = c.UpsertIncrement("P1", productPayload("P1", 10))
	}

	if c.Len() != 1 {
		t.Fatalf("expected exactly one item, got %d", c.Len())
	}
	if got := c.Quantity("P1"); got != 5 {
		t.Errorf("expected quantity 5, got %d", got)
	}
}

func TestUpsertIncrement_KeepsFirstPayload(t *testing.T) {
	c, _ := EmptyCollection().UpsertIncrement("P1", productPayload("P1", 10))
	first, _ := c.Find("P1")

	c, change := c.UpsertIncrement("P1", productPayload("P1", 99))

	item, _ := c.Find("P1")
	if item.Payload["price"] != 10.0 {
		t.Errorf("expected original price 10, got %v", item.Payload["price"])
	}
	if item.LineID != first.LineID {
		t.Error("expected line id to stay stable across quantity changes")
	}
	if change.Kind != ChangeQuantity || change.Previous != 1 || change.Quantity != 2 {
		t.Errorf("unexpected change %+v", change)
	}
}

func TestUpsertIncrement_EmptyIDIsNoop(t *testing.T) {
	c, change := EmptyCollection().UpsertIncrement("", Payload{"name": "ghost"})

	if !c.IsEmpty() {
		t.Errorf("expected empty collection, got %d items", c.Len())
	}
	if change.Changed() {
		t.Errorf("expected no change, got %v", change.Kind)
	}
}

func TestUpsertIncrement_StripsReservedFields(t *testing.T) {
	c, _ := EmptyCollection().UpsertIncrement("P1", Payload{
		FieldProductID: "P1",
		FieldQuantity:  40,
		FieldLineID:    "stale",
		"name":         "Soap",
	})

	item, _ := c.Find("P1")
	for _, field := range []string{FieldProductID, FieldQuantity, FieldLineID} {
		if _, ok := item.Payload[field]; ok {
			t.Errorf("expected %q to be stripped from payload", field)
		}
	}
	if item.Payload["name"] != "Soap" {
		t.Errorf("expected name Soap, got %v", item.Payload["name"])
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := EmptyCollection()
	c, _ = c.UpsertIncrement("P1", nil)
	c, _ = c.UpsertIncrement("P2", nil)
	c, _ = c.UpsertIncrement("P3", nil)
	c, _ = c.Increment("P1")
	c, _ = c.UpsertIncrement("P2", nil)

	got := order(c)
	want := []ProductID{"P1", "P2", "P3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestIncrement_AbsentIsNoop(t *testing.T) {
	c, change := EmptyCollection().Increment("P2")

	if !c.IsEmpty() {
		t.Errorf("expected empty collection, got %d items", c.Len())
	}
	if change.Changed() {
		t.Errorf("expected no change, got %v", change.Kind)
	}
}

func TestDecrement(t *testing.T) {
	c, _ := EmptyCollection().UpsertIncrement("P1", nil)
	c, _ = c.UpsertIncrement("P1", nil)

	c, change := c.Decrement("P1")
	if got := c.Quantity("P1"); got != 1 {
		t.Fatalf("expected quantity 1, got %d", got)
	}
	if change.Kind != ChangeQuantity {
		t.Errorf("expected quantity change, got %v", change.Kind)
	}

	c, change = c.Decrement("P1")
	if !c.IsEmpty() {
		t.Fatalf("expected item removed at zero, got %v", quantities(c))
	}
	if change.Kind != ChangeRemoved || change.Previous != 1 {
		t.Errorf("unexpected change %+v", change)
	}

	c, change = c.Decrement("P1")
	if !c.IsEmpty() || change.Changed() {
		t.Errorf("expected decrement of absent id to be a no-op, got %+v", change)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	c, _ := EmptyCollection().UpsertIncrement("P1", nil)
	c, _ = c.UpsertIncrement("P2", nil)

	once, _ := c.Remove("P1")
	twice, change := once.Remove("P1")

	if change.Changed() {
		t.Errorf("expected second remove to be a no-op, got %v", change.Kind)
	}
	if len(order(once)) != 1 || len(order(twice)) != 1 || order(twice)[0] != "P2" {
		t.Errorf("expected [P2] after removes, got %v and %v", order(once), order(twice))
	}
}

func TestClear(t *testing.T) {
	c, _ := EmptyCollection().UpsertIncrement("P1", nil)
	c, _ = c.UpsertIncrement("P2", nil)

	cleared, change := c.Clear()
	if !cleared.IsEmpty() {
		t.Errorf("expected empty collection, got %d items", cleared.Len())
	}
	if change.Kind != ChangeCleared || change.Cleared != 2 {
		t.Errorf("unexpected change %+v", change)
	}

	_, change = cleared.Clear()
	if change.Changed() {
		t.Errorf("expected clearing an empty collection to report no change, got %v", change.Kind)
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	base, _ := EmptyCollection().UpsertIncrement("P1", nil)
	base, _ = base.UpsertIncrement("P2", nil)

	_, _ = base.Increment("P1")
	_, _ = base.Decrement("P2")
	_, _ = base.Remove("P1")
	_, _ = base.UpsertIncrement("P3", nil)
	_, _ = base.Clear()

	got := quantities(base)
	if len(got) != 2 || got["P1"] != 1 || got["P2"] != 1 {
		t.Errorf("expected receiver untouched, got %v", got)
	}
}

func TestItemsAreDeepCopies(t *testing.T) {
	c, _ := EmptyCollection().UpsertIncrement("P1", Payload{
		FieldProductID: "P1",
		"tags":         []any{"a", "b"},
		"size":         map[string]any{"w": 1},
	})

	items := c.Items()
	items[0].Quantity = 99
	items[0].Payload["name"] = "mutated"
	items[0].Payload["tags"].([]any)[0] = "z"
	items[0].Payload["size"].(map[string]any)["w"] = 2

	item, _ := c.Find("P1")
	if item.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", item.Quantity)
	}
	if _, ok := item.Payload["name"]; ok {
		t.Error("expected payload to be isolated from copies")
	}
	if item.Payload["tags"].([]any)[0] != "a" {
		t.Error("expected nested slice to be isolated from copies")
	}
	if item.Payload["size"].(map[string]any)["w"] != 1 {
		t.Error("expected nested map to be isolated from copies")
	}
}

func TestUpsertIncrement_PayloadIsolatedFromCaller(t *testing.T) {
	payload := Payload{FieldProductID: "P1", "name": "Soap"}
	c, _ := EmptyCollection().UpsertIncrement("P1", payload)

	payload["name"] = "Shampoo"

	item, _ := c.Find("P1")
	if item.Payload["name"] != "Soap" {
		t.Errorf("expected snapshotted name Soap, got %v", item.Payload["name"])
	}
}

type dimensions struct {
	Widths []int
	label  string
}

func TestPayloadClone_TypedContainers(t *testing.T) {
	sizes := []int{1, 2}
	attrs := map[string]string{"color": "red"}
	dims := &dimensions{Widths: []int{10}, label: "box"}
	grid := [2][]float64{{1.5}, {2.5}}
	payload := Payload{FieldProductID: "P1", "sizes": sizes, "attrs": attrs, "dims": dims, "grid": grid}

	c, _ := EmptyCollection().UpsertIncrement("P1", payload)
	sizes[0] = 99
	attrs["color"] = "blue"
	dims.Widths[0] = 0
	grid[0][0] = -1

	item, _ := c.Find("P1")
	if got := item.Payload["sizes"].([]int); got[0] != 1 {
		t.Errorf("expected sizes [1 2], got %v", got)
	}
	if got := item.Payload["attrs"].(map[string]string); got["color"] != "red" {
		t.Errorf("expected color red, got %v", got["color"])
	}
	gotDims := item.Payload["dims"].(*dimensions)
	if gotDims == dims || gotDims.Widths[0] != 10 || gotDims.label != "box" {
		t.Errorf("expected copied dimensions, got %+v", gotDims)
	}
	if got := item.Payload["grid"].([2][]float64); got[0][0] != 1.5 {
		t.Errorf("expected grid copy, got %v", got)
	}

	copied := item.Payload.Clone()
	copied["sizes"].([]int)[1] = -1
	again, _ := c.Find("P1")
	if got := again.Payload["sizes"].([]int); got[1] != 2 {
		t.Errorf("expected stored sizes untouched by a copy, got %v", got)
	}
}

func TestTotalQuantity(t *testing.T) {
	c, _ := EmptyCollection().UpsertIncrement("P1", nil)
	c, _ = c.UpsertIncrement("P1", nil)
	c, _ = c.UpsertIncrement("P2", nil)

	if got := c.TotalQuantity(); got != 3 {
		t.Errorf("expected total 3, got %d", got)
	}
}

func TestNormalize(t *testing.T) {
	fixed := uuid.New()
	items := []LineItem{
		{ProductID: "P1", Quantity: 2, LineID: fixed},
		{ProductID: "", Quantity: 3},
		{ProductID: "P2", Quantity: 0},
		{ProductID: "P3", Quantity: 1},
		{ProductID: "P1", Quantity: 4},
	}

	out, dropped := Normalize(items)

	if dropped != 3 {
		t.Errorf("expected 3 dropped, got %d", dropped)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out))
	}
	if out[0].ProductID != "P1" || out[0].Quantity != 6 {
		t.Errorf("expected P1 merged to 6, got %+v", out[0])
	}
	if out[0].LineID != fixed {
		t.Error("expected existing line id to be kept")
	}
	if out[1].ProductID != "P3" || out[1].LineID == uuid.Nil {
		t.Errorf("expected P3 with a fresh line id, got %+v", out[1])
	}
	if out[1].Payload == nil {
		t.Error("expected nil payload to be replaced by an empty one")
	}
}

func TestNewCollection_CopiesInput(t *testing.T) {
	items := []LineItem{{ProductID: "P1", Quantity: 3, Payload: Payload{"name": "Soap"}}}
	c := NewCollection(items)

	items[0].Quantity = 7
	items[0].Payload["name"] = "Shampoo"

	item, _ := c.Find("P1")
	if item.Quantity != 3 || item.Payload["name"] != "Soap" {
		t.Errorf("expected collection isolated from input, got %+v", item)
	}
}
