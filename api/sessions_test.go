package main

import (
	"testing"
	"time"
)

func newTestApp() *application {
	var cfg config
	cfg.jwtSecret = "test-secret-test-secret-test-sec"
	return &application{
		config:   cfg,
		sessions: newSessionStore(),
	}
}

func TestSessionStore_EstablishLookupTerminate(t *testing.T) {
	s := newSessionStore()

	id := s.establish(7, time.Hour)
	userID, ok := s.lookup(id)
	if !ok || userID != 7 {
		t.Fatalf("expected live session for user 7, got %d %v", userID, ok)
	}

	s.terminate(id)
	_, ok = s.lookup(id)
	if ok {
		t.Fatalf("expected terminated session to be gone")
	}
}

func TestSessionStore_FreshIDPerLogin(t *testing.T) {
	s := newSessionStore()
	a := s.establish(7, time.Hour)
	b := s.establish(7, time.Hour)
	if a == b {
		t.Fatalf("two logins reused the same session id")
	}
	// terminating one login must not touch the other
	s.terminate(a)
	if _, ok := s.lookup(b); !ok {
		t.Fatalf("terminating one session revoked another")
	}
}

func TestSessionStore_ExpiredSessionRejected(t *testing.T) {
	s := newSessionStore()
	id := s.establish(7, -time.Minute)
	if _, ok := s.lookup(id); ok {
		t.Fatalf("expected expired session to be rejected")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	app := newTestApp()
	u := &user{ID: 7, Email: "a@x.com"}

	token, expiresAt, err := app.issueToken(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("token already expired at issue time")
	}

	claims, err := app.parseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected user 7, got %d", claims.UserID)
	}
}

func TestParseToken_RejectsRevokedSession(t *testing.T) {
	app := newTestApp()
	token, _, err := app.issueToken(&user{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := app.parseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	app.sessions.terminate(claims.ID)
	if _, err := app.parseToken(token); err == nil {
		t.Fatalf("expected revoked token to be rejected")
	}
}

func TestParseToken_RejectsTampering(t *testing.T) {
	app := newTestApp()
	token, _, err := app.issueToken(&user{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := app.parseToken(token + "x"); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}

	other := newTestApp()
	other.config.jwtSecret = "another-secret-another-secret-ab"
	if _, err := other.parseToken(token); err == nil {
		t.Fatalf("expected token signed with a different secret to be rejected")
	}
}
