// Package account defines users, login sessions, and the identity that the
// todo API resolves from a session on every request.
package account
