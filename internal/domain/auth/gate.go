// Package auth implements the session gate: two fixed roles, each behind
// one shared secret, with capabilities held in process memory for the
// lifetime of a client session. There is no lockout or rotation; this is a
// single-household tool, not a general auth layer.
package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"memorylocker/internal/config"
	"memorylocker/utils/sessionid"
)

// Capability is the permission level granted after authentication.
type Capability string

const (
	CapabilityAuthor Capability = "author"
	CapabilityReader Capability = "reader"
)

// ErrInvalidCredentials is returned for an unknown role or a wrong secret.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid role or secret")

// Session is an authenticated client session.
type Session struct {
	Token      string
	Capability Capability
	CreatedAt  time.Time
}

// Gate authenticates roles against their configured secrets and tracks
// live sessions.
type Gate struct {
	authorSecret []byte
	readerSecret []byte
	log          zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]Session
}

func NewGate(cfg *config.Config, log zerolog.Logger) *Gate {
	return &Gate{
		authorSecret: []byte(cfg.AuthorSecret),
		readerSecret: []byte(cfg.ReaderSecret),
		log:          log.With().Str("component", "access-gate").Logger(),
		sessions:     make(map[string]Session),
	}
}

// Authenticate maps a role and secret to a capability. On success a session
// token is issued and held in memory until Logout.
func (g *Gate) Authenticate(role, secret string) (*Session, error) {
	var capability Capability
	var expected []byte

	switch role {
	case string(CapabilityAuthor):
		capability = CapabilityAuthor
		expected = g.authorSecret
	case string(CapabilityReader):
		capability = CapabilityReader
		expected = g.readerSecret
	default:
		g.log.Warn().Str("role", role).Msg("login attempt with unrecognized role")
		return nil, ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(secret), expected) != 1 {
		g.log.Warn().Str("role", role).Msg("login attempt with wrong secret")
		return nil, ErrInvalidCredentials
	}

	session := Session{
		Token:      sessionid.New(),
		Capability: capability,
		CreatedAt:  time.Now(),
	}

	g.mu.Lock()
	g.sessions[session.Token] = session
	g.mu.Unlock()

	g.log.Info().Str("capability", string(capability)).Msg("session opened")
	return &session, nil
}

// Lookup resolves a token to its live session.
func (g *Gate) Lookup(token string) (*Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	session, ok := g.sessions[token]
	if !ok {
		return nil, false
	}
	return &session, true
}

// Logout clears the session unconditionally. Unknown tokens are a no-op.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, token)
}
