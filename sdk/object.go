package sdk

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ObjectIDLen is the byte length of an object identity.
const ObjectIDLen = 32

// ObjectID is the opaque identity of a persistent ledger object.
type ObjectID [ObjectIDLen]byte

// PackageObjectID names the contract package itself. Transactions that touch
// package scoped state (one-time bootstraps) must list it among their objects.
var PackageObjectID = ObjectID{ObjectIDLen - 1: 0x01}

// String renders the id as 0x + 64 hex digits.
func (id ObjectID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// IsZero reports whether the id was never assigned.
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}

// ParseObjectID accepts the canonical rendering, with or without the 0x prefix.
// Short forms such as 0x1 are left padded.
func ParseObjectID(s string) (ObjectID, bool) {
	var id ObjectID
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "0x")
	if s == "" || len(s) > ObjectIDLen*2 {
		return id, false
	}
	s = strings.Repeat("0", ObjectIDLen*2-len(s)) + s
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

// ObjectIDFromBytes copies raw key bytes back into an id.
func ObjectIDFromBytes(b []byte) (ObjectID, bool) {
	var id ObjectID
	if len(b) != ObjectIDLen {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

// MarshalText lets ids appear as strings in JSON views and map keys.
func (id ObjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (id *ObjectID) UnmarshalText(text []byte) error {
	parsed, ok := ParseObjectID(string(text))
	if !ok {
		return fmt.Errorf("invalid object id %q", string(text))
	}
	*id = parsed
	return nil
}
