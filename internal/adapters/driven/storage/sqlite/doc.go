// Package sqlite provides the durable snapshot store backed by SQLite.
//
// One database file holds every list's snapshot and cursor as a single
// row each, written whole after a sync pass. WAL mode keeps concurrent
// readers cheap; migrations are embedded and applied on open.
package sqlite
