// Package state persists named JSON blobs in a local SQLite database.
//
// It is the Go-side stand-in for browser local storage: each consumer owns a
// single key holding one JSON document (the auth session's tokens, the UI
// language preference). The store manages connection setup, schema
// initialization, and an advisory file lock guarding against concurrent CLI
// processes.
//
// The database is transient convenience state, not an archive; schema bumps
// reject old databases instead of migrating them.
package state
