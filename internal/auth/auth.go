// Package auth turns a bearer credential into an authenticated principal.
// The identity provider is an external collaborator; the pipeline only sees
// an opaque principal or a rejection.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Principal is an opaque authenticated caller identity.
type Principal struct {
	ID string
}

// Authenticator validates a bearer credential.
type Authenticator interface {
	// Authenticate returns the principal for a credential, or (zero, false)
	// when the credential is absent or invalid.
	Authenticate(ctx context.Context, bearer string) (Principal, bool)
}

// StaticTokens authenticates against a fixed token set resolved once at
// startup. Comparison is constant-time.
type StaticTokens struct {
	tokens []string
}

// NewStaticTokens builds an authenticator from configured API tokens.
// Blank entries are dropped.
func NewStaticTokens(tokens []string) *StaticTokens {
	var kept []string
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	return &StaticTokens{tokens: kept}
}

func (s *StaticTokens) Authenticate(ctx context.Context, bearer string) (Principal, bool) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return Principal{}, false
	}
	for _, t := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(bearer)) == 1 {
			sum := sha256.Sum256([]byte(t))
			return Principal{ID: "token:" + hex.EncodeToString(sum[:8])}, true
		}
	}
	return Principal{}, false
}

// BearerFromHeader extracts the credential from an Authorization header value.
func BearerFromHeader(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
