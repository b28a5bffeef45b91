package sdk

import (
	"encoding/hex"
	"strings"
)

// AddressLen is the byte length of a signer address.
const AddressLen = 32

// Address identifies a signer. The canonical form is 0x followed by 64 lowercase hex digits.
type Address string

// String returns the literal representation (like 0x00ab...) of the address.
// Example payload: sdk.Address("0x01...").String()
func (a Address) String() string {
	return string(a)
}

// IsValid returns false if the address is not in canonical form, used as a light sanity check.
// Example payload: sdk.Address("foo").IsValid()
func (a Address) IsValid() bool {
	s := string(a)
	if len(s) != 2+AddressLen*2 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// Bytes returns the raw 32 address bytes, or nil when the address is malformed.
func (a Address) Bytes() []byte {
	if !a.IsValid() {
		return nil
	}
	b, err := hex.DecodeString(string(a)[2:])
	if err != nil {
		return nil
	}
	return b
}

// ParseAddress normalizes user input (case, missing 0x, short hex) into canonical form.
// Short inputs are left padded the same way Sui tooling does (0x2 -> 0x00..02).
func ParseAddress(s string) (Address, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "0x")
	if s == "" || len(s) > AddressLen*2 {
		return "", false
	}
	if _, err := hex.DecodeString(padHex(s)); err != nil {
		return "", false
	}
	return Address("0x" + strings.Repeat("0", AddressLen*2-len(s)) + s), true
}

// padHex makes odd-length hex decodable so validation accepts 0x2 style shorthands.
func padHex(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}
