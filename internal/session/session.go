package session

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role values carried in the backend's token claims
const (
	RoleHead     = "head"
	RoleEngineer = "engineer"
	RoleStores   = "stores"
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session is the authenticated identity handed to the API client.
// It replaces ambient browser storage: whoever constructs the client
// decides where the token came from.
type Session struct {
	Token  string
	UserID string
	Role   string
	Expiry time.Time
}

// FromToken builds a session by reading the token's claims. The
// signature is not verified here; the backend rejects forged tokens
// and the client only needs the role and expiry for local gating.
func FromToken(token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("empty token")
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	s := &Session{
		Token:  token,
		UserID: claims.UserID,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		s.Expiry = claims.ExpiresAt.Time
	}
	return s, nil
}

// Valid reports whether the session has a token that has not expired
// as of the given instant. A zero expiry is treated as non-expiring.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return s.Expiry.IsZero() || now.Before(s.Expiry)
}

// IsHead reports whether the session may edit requisition quantities.
func (s *Session) IsHead() bool {
	return s != nil && s.Role == RoleHead
}

// LoadFromFile reads a cached token and rebuilds the session.
func LoadFromFile(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromToken(string(raw))
}

// SaveToFile caches the session token for later runs.
func (s *Session) SaveToFile(path string) error {
	return os.WriteFile(path, []byte(s.Token), 0o600)
}
