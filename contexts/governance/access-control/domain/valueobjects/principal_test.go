package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPrincipalNormalizesCase(t *testing.T) {
	principal, err := NewPrincipal("  0xAbCdEf0123456789aBcDeF0123456789AbCdEf01 ")
	require.NoError(t, err)
	require.Equal(t, Principal("0xabcdef0123456789abcdef0123456789abcdef01"), principal)
}

func TestNewPrincipalRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{
		"",
		"abcdef0123456789abcdef0123456789abcdef01",
		"0xabc",
		"0xzzcdef0123456789abcdef0123456789abcdef01",
		"0x0000000000000000000000000000000000000000",
	} {
		_, err := NewPrincipal(raw)
		require.Error(t, err, "input %q", raw)
	}
}
