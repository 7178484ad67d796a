package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityFromDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		suffix      string
		expected    Identity
	}{
		{"Institutional suffix is stripped", "alice -IIITK", DefaultIdentitySuffix, "alice"},
		{"Name without suffix is kept", "bob", DefaultIdentitySuffix, "bob"},
		{"Only first occurrence is stripped", "carl -IIITK -IIITK", DefaultIdentitySuffix, "carl -IIITK"},
		{"Empty suffix keeps the name", "dana -IIITK", "", "dana -IIITK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.expected, IdentityFromDisplayName(tt.displayName, tt.suffix))
		})
	}
}

func TestDisconnectReason_CloseCode(t *testing.T) {
	req := require.New(t)

	code, text, ok := ReasonNoCredential.CloseCode()
	req.True(ok)
	req.Equal(4002, code)
	req.Equal("No JWT token", text)

	code, _, ok = ReasonInvalidCredential.CloseCode()
	req.True(ok)
	req.Equal(4003, code)

	code, text, ok = ReasonShutdown.CloseCode()
	req.True(ok)
	req.Equal(1001, code)
	req.Equal("Server shutting down", text)

	_, _, ok = ReasonClosed.CloseCode()
	req.False(ok)
}
