package logic

import (
	"encoding/json"
	"reflect"
)

// Field names with a fixed meaning in a persisted line-item record.
const (
	FieldProductID       = "productId"
	FieldLegacyProductID = "product_id"
	FieldQuantity        = "quantity"
	FieldLineID          = "lineId"
)

// Payload holds the product attributes captured when a line item is first
// added (name, price, image reference, size, ...). The collection never
// inspects it beyond the identifier fields and never reconciles it against
// later product data.
type Payload map[string]any

// ProductID returns the canonical identity carried by the payload. A usable
// productId wins; product_id is accepted for callers that still send the
// backend's field name, including when productId is present but unusable.
func (p Payload) ProductID() (ProductID, bool) {
	if p == nil {
		return "", false
	}
	for _, field := range []string{FieldProductID, FieldLegacyProductID} {
		if id, ok := NormalizeProductID(p[field]); ok {
			return id, true
		}
	}
	return "", false
}

// rawProductID returns the first non-nil identifier field, used only to
// explain why a payload has no usable identity.
func (p Payload) rawProductID() (any, bool) {
	if p == nil {
		return nil, false
	}
	if v, ok := p[FieldProductID]; ok && v != nil {
		return v, true
	}
	if v, ok := p[FieldLegacyProductID]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// Clone returns a deep copy of the payload. Nested maps and slices are copied
// so that a snapshot handed to a subscriber never aliases engine state.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// snapshotPayload copies a caller payload for storage on a new line item,
// dropping the fields owned by the line item itself.
func snapshotPayload(p Payload) Payload {
	out := p.Clone()
	if out == nil {
		return Payload{}
	}
	delete(out, FieldProductID)
	delete(out, FieldQuantity)
	delete(out, FieldLineID)
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, int, int64, float64, json.Number:
		return v
	case Payload:
		return t.Clone()
	case map[string]any:
		return map[string]any(Payload(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return cloneReflect(reflect.ValueOf(v)).Interface()
	}
}

// cloneReflect copies typed containers (slices, maps, arrays, pointers and
// the exported fields of structs) so that no caller value stays shared.
// Unexported struct fields are copied by value.
func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneReflect(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(cloneReflect(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if f := out.Field(i); f.CanSet() {
				f.Set(cloneReflect(v.Field(i)))
			}
		}
		return out
	default:
		return v
	}
}
