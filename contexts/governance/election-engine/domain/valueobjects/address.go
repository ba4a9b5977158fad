package valueobjects

import (
	"encoding/hex"
	"errors"
	"strings"
)

// Address is a 20-byte account or contract address in lower-case 0x-hex.
// Principals and election addresses share the representation.
type Address string

var errMalformedAddress = errors.New("address must be a 0x-prefixed 20-byte hex value")

const zeroAddress = Address("0x0000000000000000000000000000000000000000")

func NewAddress(raw string) (Address, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if !strings.HasPrefix(value, "0x") || len(value) != 42 {
		return "", errMalformedAddress
	}
	if _, err := hex.DecodeString(value[2:]); err != nil {
		return "", errMalformedAddress
	}
	if Address(value) == zeroAddress {
		return "", errors.New("address must not be zero")
	}
	return Address(value), nil
}

func (a Address) String() string {
	return string(a)
}

func (a Address) IsZero() bool {
	return a == "" || a == zeroAddress
}
