package store

import (
	"testing"
	"time"
)

func TestJWTSessionRoundTrip(t *testing.T) {
	sessions, err := NewJWTSessionStore("test-signing-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTSessionStore: %v", err)
	}
	token, err := sessions.NewSession("acct-1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	id, ok, err := sessions.GetAccountIDByToken(token)
	if err != nil || !ok {
		t.Fatalf("GetAccountIDByToken: ok=%v err=%v", ok, err)
	}
	if id != "acct-1" {
		t.Fatalf("subject = %q, want acct-1", id)
	}
}

func TestJWTSessionRejectsGarbageAndWrongKey(t *testing.T) {
	sessions, err := NewJWTSessionStore("test-signing-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTSessionStore: %v", err)
	}
	if _, ok, err := sessions.GetAccountIDByToken("not-a-jwt"); err != nil || ok {
		t.Fatalf("expected not found for garbage token, ok=%v err=%v", ok, err)
	}

	other, err := NewJWTSessionStore("a-different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTSessionStore: %v", err)
	}
	token, err := other.NewSession("acct-1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, ok, err := sessions.GetAccountIDByToken(token); err != nil || ok {
		t.Fatalf("expected not found for wrong key, ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionExpires(t *testing.T) {
	sessions, err := NewJWTSessionStore("test-signing-secret", time.Millisecond)
	if err != nil {
		t.Fatalf("NewJWTSessionStore: %v", err)
	}
	token, err := sessions.NewSession("acct-1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, err := sessions.GetAccountIDByToken(token); err != nil || ok {
		t.Fatalf("expected expired token to report not found, ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionStoreConfig(t *testing.T) {
	if _, err := NewJWTSessionStore("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewJWTSessionStore("secret", 0); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}
