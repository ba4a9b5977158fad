package valueobjects

import (
	"encoding/hex"
	"errors"
	"strings"
)

// Principal is a 20-byte account address rendered as lower-case 0x-hex.
// Every registry lookup is keyed by the normalized form.
type Principal string

var errMalformedPrincipal = errors.New("principal must be a 0x-prefixed 20-byte hex address")

const zeroPrincipal = Principal("0x0000000000000000000000000000000000000000")

func NewPrincipal(raw string) (Principal, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if !strings.HasPrefix(value, "0x") || len(value) != 42 {
		return "", errMalformedPrincipal
	}
	if _, err := hex.DecodeString(value[2:]); err != nil {
		return "", errMalformedPrincipal
	}
	principal := Principal(value)
	if principal == zeroPrincipal {
		return "", errors.New("principal must not be the zero address")
	}
	return principal, nil
}

func (p Principal) String() string {
	return string(p)
}
