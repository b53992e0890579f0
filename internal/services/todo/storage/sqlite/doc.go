// Package sqlite provides SQLite-backed persistence for the todo service.
//
// It is the default on-disk store used by the server and the todoctl
// maintenance commands.
package sqlite
