package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisSessionLifecycle(t *testing.T) {
	redis := miniredis.RunT(t)
	sessions := NewRedisSessionStore(redis.Addr(), "", time.Hour)

	token, err := sessions.NewSession("acct-1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	id, ok, err := sessions.GetAccountIDByToken(token)
	if err != nil || !ok || id != "acct-1" {
		t.Fatalf("GetAccountIDByToken = %q, %v, %v; want acct-1", id, ok, err)
	}

	if err := sessions.DeleteSession(token); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, ok, err := sessions.GetAccountIDByToken(token); err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
}

func TestRedisSessionExpires(t *testing.T) {
	redis := miniredis.RunT(t)
	sessions := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	token, err := sessions.NewSession("acct-1")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	redis.FastForward(2 * time.Minute)
	if _, ok, err := sessions.GetAccountIDByToken(token); err != nil || ok {
		t.Fatalf("expected expired session, ok=%v err=%v", ok, err)
	}
}
