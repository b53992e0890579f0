// Package session manages email/password accounts and login sessions.
//
// A session is a storage row; the client holds an HS256-signed token naming
// that row. Expiry and revocation live in storage, so signing out or pruning
// takes effect immediately. Sessions slide: once per UpdateAge of use the
// expiry moves to now + TTL.
package session
