package store

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/RahulVervebot/pims-sub002/logic"
)

// Record is the flattened persisted shape of one line item: the product
// payload fields plus productId, quantity and lineId.
type Record map[string]any

func recordFromItem(item logic.LineItem) Record {
	rec := Record(item.Payload.Clone())
	if rec == nil {
		rec = Record{}
	}
	rec[logic.FieldProductID] = string(item.ProductID)
	rec[logic.FieldQuantity] = item.Quantity
	if item.LineID != uuid.Nil {
		rec[logic.FieldLineID] = item.LineID.String()
	}
	return rec
}

// itemFromRecord converts a decoded record back into a line item. It reports
// false for records without a usable identity or quantity.
func itemFromRecord(rec Record) (logic.LineItem, bool) {
	id, ok := logic.Payload(rec).ProductID()
	if !ok {
		return logic.LineItem{}, false
	}
	qty, ok := quantityOf(rec[logic.FieldQuantity])
	if !ok || logic.RequirePositive(qty, logic.FieldQuantity) != nil {
		return logic.LineItem{}, false
	}

	var lineID uuid.UUID
	if raw, isString := rec[logic.FieldLineID].(string); isString {
		if parsed, err := uuid.Parse(raw); err == nil {
			lineID = parsed
		}
	}

	payload := logic.Payload(rec).Clone()
	delete(payload, logic.FieldProductID)
	delete(payload, logic.FieldQuantity)
	delete(payload, logic.FieldLineID)

	return logic.LineItem{
		LineID:    lineID,
		ProductID: id,
		Quantity:  qty,
		Payload:   payload,
	}, true
}

func quantityOf(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		if t > math.MaxInt32 || t < math.MinInt32 {
			return 0, false
		}
		return int(t), true
	case float64:
		if math.Trunc(t) != t || math.IsInf(t, 0) || math.Abs(t) > math.MaxInt32 {
			return 0, false
		}
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return quantityOf(n)
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return quantityOf(f)
	default:
		return 0, false
	}
}

// dropUnencodable removes payload fields that have no JSON form (NaN, channels,
// functions, cyclic values) from records in place and returns their names.
// The identity fields are always kept.
func dropUnencodable(records []Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for field, v := range rec {
			switch field {
			case logic.FieldProductID, logic.FieldQuantity, logic.FieldLineID:
				continue
			}
			if _, err := json.Marshal(v); err != nil {
				delete(rec, field)
				seen[field] = true
			}
		}
	}
	dropped := make([]string, 0, len(seen))
	for field := range seen {
		dropped = append(dropped, field)
	}
	sort.Strings(dropped)
	return dropped
}
