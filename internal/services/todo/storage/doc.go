// Package storage defines persistence contracts for to-do items, users, and
// login sessions.
//
// Every item query is scoped by owner: a row that belongs to another user is
// reported exactly like a missing row.
package storage
