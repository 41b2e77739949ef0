package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, userID, role string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   role,
	}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestFromTokenReadsClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s, err := FromToken(mintToken(t, "U-01", RoleHead, exp))
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	if s.UserID != "U-01" {
		t.Errorf("UserID = %q, want U-01", s.UserID)
	}
	if s.Role != RoleHead {
		t.Errorf("Role = %q, want %q", s.Role, RoleHead)
	}
	if !s.Expiry.Equal(exp) {
		t.Errorf("Expiry = %v, want %v", s.Expiry, exp)
	}
}

func TestFromTokenRejectsGarbage(t *testing.T) {
	if _, err := FromToken(""); err == nil {
		t.Error("empty token accepted")
	}
	if _, err := FromToken("not-a-jwt"); err == nil {
		t.Error("malformed token accepted")
	}
}

func TestValid(t *testing.T) {
	now := time.Now()

	var nilSess *Session
	if nilSess.Valid(now) {
		t.Error("nil session reported valid")
	}

	live, err := FromToken(mintToken(t, "U-02", RoleEngineer, now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	if !live.Valid(now) {
		t.Error("unexpired session reported invalid")
	}
	if live.Valid(now.Add(2 * time.Hour)) {
		t.Error("expired session reported valid")
	}

	// Zero expiry never expires.
	forever := &Session{Token: "x"}
	if !forever.Valid(now.Add(24 * 365 * time.Hour)) {
		t.Error("zero-expiry session reported invalid")
	}
}

func TestIsHead(t *testing.T) {
	var nilSess *Session
	if nilSess.IsHead() {
		t.Error("nil session reported head")
	}
	if (&Session{Role: RoleEngineer}).IsHead() {
		t.Error("engineer reported head")
	}
	if !(&Session{Role: RoleHead}).IsHead() {
		t.Error("head not reported head")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	orig, err := FromToken(mintToken(t, "U-01", RoleHead, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	if err := orig.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.UserID != orig.UserID || loaded.Role != orig.Role {
		t.Errorf("round trip mismatch: got %s/%s, want %s/%s",
			loaded.UserID, loaded.Role, orig.UserID, orig.Role)
	}
}
