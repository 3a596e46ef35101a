package auth

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorylocker/internal/config"
)

func newTestGate() *Gate {
	cfg := &config.Config{
		AuthorSecret: "admin123",
		ReaderSecret: "love123",
	}
	return NewGate(cfg, zerolog.Nop())
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		secret  string
		want    Capability
		wantErr bool
	}{
		{name: "author with author secret", role: "author", secret: "admin123", want: CapabilityAuthor},
		{name: "reader with reader secret", role: "reader", secret: "love123", want: CapabilityReader},
		{name: "author with wrong secret", role: "author", secret: "love123", wantErr: true},
		{name: "reader with wrong secret", role: "reader", secret: "admin123", wantErr: true},
		{name: "author with empty secret", role: "author", secret: "", wantErr: true},
		{name: "unrecognized role", role: "admin", secret: "admin123", wantErr: true},
		{name: "empty role", role: "", secret: "admin123", wantErr: true},
	}

	gate := newTestGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := gate.Authenticate(tt.role, tt.secret)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCredentials)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, session.Capability)
			assert.NotEmpty(t, session.Token)
		})
	}
}

func TestLookupAndLogout(t *testing.T) {
	gate := newTestGate()

	session, err := gate.Authenticate("author", "admin123")
	require.NoError(t, err)

	found, ok := gate.Lookup(session.Token)
	require.True(t, ok)
	assert.Equal(t, CapabilityAuthor, found.Capability)

	gate.Logout(session.Token)

	_, ok = gate.Lookup(session.Token)
	assert.False(t, ok)

	// Logout of an unknown token must not panic or error.
	gate.Logout("sess_unknown")
}

func TestLookupUnknownToken(t *testing.T) {
	gate := newTestGate()
	_, ok := gate.Lookup("sess_nope")
	assert.False(t, ok)
}
