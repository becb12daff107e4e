package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RahulVervebot/pims-sub002/logic"
)

func TestUpcaster_PassesThroughUnmatched(t *testing.T) {
	rec := Record{logic.FieldProductID: "P1", logic.FieldQuantity: 1}

	out := DefaultUpcaster().Upcast([]Record{rec})

	assert.Len(t, out, 1)
	assert.Equal(t, rec, out[0])
}

func TestUpcaster_DoesNotModifyInput(t *testing.T) {
	rec := Record{"qty": 2.0, logic.FieldLegacyProductID: "A"}

	out := DefaultUpcaster().Upcast([]Record{rec})

	assert.Equal(t, Record{"qty": 2.0, logic.FieldLegacyProductID: "A"}, rec)
	assert.Equal(t, "A", out[0][logic.FieldProductID])
	assert.Equal(t, 2.0, out[0][logic.FieldQuantity])
	assert.NotContains(t, out[0], "qty")
}

func TestUpcaster_AppliesHandlersInOrder(t *testing.T) {
	var calls []string
	upcaster := NewUpcaster().
		On("first", func(Record) bool { return true }, func(r Record) Record {
			calls = append(calls, "first")
			r["step"] = 1
			return r
		}).
		On("second", func(r Record) bool { return r["step"] == 1 }, func(r Record) Record {
			calls = append(calls, "second")
			r["step"] = 2
			return r
		})

	out := upcaster.Upcast([]Record{{}})

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 2, out[0]["step"])
	assert.Equal(t, []string{"first", "second"}, upcaster.Names())
}

func TestUpcaster_StringQuantityLeftWhenUnparseable(t *testing.T) {
	out := DefaultUpcaster().Upcast([]Record{{logic.FieldProductID: "P1", logic.FieldQuantity: "many"}})

	assert.Equal(t, "many", out[0][logic.FieldQuantity])
	_, ok := itemFromRecord(out[0])
	assert.False(t, ok)
}
