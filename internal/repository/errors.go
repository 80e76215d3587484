// Package repository defines the record store for bookings and menu items and
// its implementations: a SQL store over sqlx (MySQL or PostgreSQL) and an
// in-memory store used in tests and with DB_DRIVER=memory.
//
// Sentinel errors declared here let handlers tell a missing record apart
// from an infrastructure failure without knowing which store is in use.
package repository

import "errors"

// ErrNotFound is returned by lookups by id when no row matches. The HTTP
// error handler translates it into a 404 page.
var ErrNotFound = errors.New("record not found")
