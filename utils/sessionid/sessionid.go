// Package sessionid issues and parses sess_* session tokens.
package sessionid

import (
	crand "crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a sess_* ULID string. Tokens act as bearer credentials, so
// the entropy comes from crypto/rand.
func New() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), crand.Reader)
	return "sess_" + strings.ToLower(id.String())
}

// IsValid reports whether the string is a sess_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, "sess_") {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the sess_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "sess_")
	value = strings.TrimPrefix(value, "SESS_")
	return ulid.Parse(value)
}
