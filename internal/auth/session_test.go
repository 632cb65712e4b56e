package auth

import (
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, expiresAt, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expiry should be in the future")
	}

	if err := m.Verify(token); err != nil {
		t.Errorf("freshly minted token should verify: %v", err)
	}
}

func TestSessionWrongSecret(t *testing.T) {
	token, _, err := NewSessionManager("secret-a", time.Hour).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := NewSessionManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("token signed with a different secret must not verify")
	}
}

func TestSessionExpired(t *testing.T) {
	m := NewSessionManager("secret", -time.Minute)

	token, _, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := m.Verify(token); err == nil {
		t.Error("expired token must not verify")
	}
}

func TestSessionGarbageToken(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	if err := m.Verify("not-a-jwt"); err == nil {
		t.Error("garbage token must not verify")
	}
}
