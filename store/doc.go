// Package store persists line-item collections under stable keys.
//
// A Store pairs a Backend, which only knows how to keep opaque bytes under a
// key, with a Codec that turns line items into those bytes. Loading is
// forgiving: a missing key is an empty collection, and a payload that cannot
// be decoded yields an empty collection together with a diagnostic error the
// caller may log and otherwise ignore.
package store
