// Package sqlite provides the on-device collection backend backed by SQLite.
//
// Each collection key owns exactly one row; every save rewrites the whole
// encoded collection.
package sqlite
