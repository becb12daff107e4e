package store

import (
	"strconv"
	"strings"

	"github.com/RahulVervebot/pims-sub002/logic"
)

// UpcastHandler rewrites a record written in an older shape.
type UpcastHandler func(old Record) Record

// UpcastMatcher reports whether a record needs a handler.
type UpcastMatcher func(rec Record) bool

// Upcaster transforms stored records from older shapes to the current one.
//
// Every registered handler whose matcher accepts a record is applied, in
// registration order. Records that match nothing pass through unchanged.
//
// Example:
//
//	upcaster := NewUpcaster().
//	    On("legacy-product-id", hasLegacyID, copyLegacyID).
//	    On("legacy-qty", hasQty, renameQty)
//
//	current := upcaster.Upcast(records)
type Upcaster struct {
	handlers []upcastEntry
}

type upcastEntry struct {
	name    string
	match   UpcastMatcher
	handler UpcastHandler
}

// NewUpcaster creates an upcaster with no handlers.
func NewUpcaster() *Upcaster {
	return &Upcaster{handlers: make([]upcastEntry, 0)}
}

// On registers a handler for records accepted by match.
func (u *Upcaster) On(name string, match UpcastMatcher, handler UpcastHandler) *Upcaster {
	u.handlers = append(u.handlers, upcastEntry{name: name, match: match, handler: handler})
	return u
}

// Names returns the registered handler names in application order.
func (u *Upcaster) Names() []string {
	names := make([]string, len(u.handlers))
	for i, entry := range u.handlers {
		names[i] = entry.name
	}
	return names
}

// Upcast returns the records rewritten to the current shape. Input records
// are never modified.
func (u *Upcaster) Upcast(records []Record) []Record {
	result := make([]Record, 0, len(records))
	for _, rec := range records {
		current := rec
		copied := false
		for _, entry := range u.handlers {
			if !entry.match(current) {
				continue
			}
			if !copied {
				current = Record(logic.Payload(current).Clone())
				copied = true
			}
			current = entry.handler(current)
		}
		result = append(result, current)
	}
	return result
}

// DefaultUpcaster knows the shapes written by earlier client releases:
// items keyed only by the backend's product_id field, quantities stored as
// qty, and quantities serialized as strings.
func DefaultUpcaster() *Upcaster {
	return NewUpcaster().
		On("legacy-product-id", hasLegacyProductID, copyLegacyProductID).
		On("legacy-qty", hasLegacyQty, renameLegacyQty).
		On("string-quantity", hasStringQuantity, parseStringQuantity)
}

func hasLegacyProductID(rec Record) bool {
	if _, ok := logic.NormalizeProductID(rec[logic.FieldProductID]); ok {
		return false
	}
	_, ok := logic.NormalizeProductID(rec[logic.FieldLegacyProductID])
	return ok
}

// copyLegacyProductID keeps product_id in place: it is caller data that
// belongs to the payload.
func copyLegacyProductID(rec Record) Record {
	if id, ok := logic.NormalizeProductID(rec[logic.FieldLegacyProductID]); ok {
		rec[logic.FieldProductID] = string(id)
	}
	return rec
}

func hasLegacyQty(rec Record) bool {
	_, hasQty := rec["qty"]
	_, hasQuantity := rec[logic.FieldQuantity]
	return hasQty && !hasQuantity
}

func renameLegacyQty(rec Record) Record {
	rec[logic.FieldQuantity] = rec["qty"]
	delete(rec, "qty")
	return rec
}

func hasStringQuantity(rec Record) bool {
	_, ok := rec[logic.FieldQuantity].(string)
	return ok
}

func parseStringQuantity(rec Record) Record {
	s := strings.TrimSpace(rec[logic.FieldQuantity].(string))
	if n, err := strconv.Atoi(s); err == nil {
		rec[logic.FieldQuantity] = n
	}
	return rec
}
