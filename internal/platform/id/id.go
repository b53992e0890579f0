// Package id generates the identifiers used for users, sessions and to-do
// items: a random UUIDv4 written as 26 lowercase, unpadded base32 characters.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Len is the length of every identifier.
const Len = 26

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a fresh identifier.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("id: random uuid: %w", err)
	}
	return strings.ToLower(b32.EncodeToString(u[:])), nil
}

// Parse decodes an identifier back to its UUID.
func Parse(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if len(s) != Len {
		return uuid.Nil, fmt.Errorf("id: want %d characters, got %d", Len, len(s))
	}
	raw, err := b32.DecodeString(strings.ToUpper(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("id: %w", err)
	}
	return uuid.FromBytes(raw)
}
