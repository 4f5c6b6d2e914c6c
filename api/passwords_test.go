package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("pw1secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(hash), "pbkdf2:sha256:") {
		t.Fatalf("unexpected hash encoding: %s", hash)
	}

	ok, err := verifyPassword(hash, "pw1secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected correct password to verify")
	}
}

func TestVerifyPassword_RejectsCloseGuesses(t *testing.T) {
	hash, err := hashPassword("pw1secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, guess := range []string{"", "pw1secre", "pw1secret ", "Pw1secret", "pw1secretx"} {
		ok, err := verifyPassword(hash, guess)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", guess, err)
		}
		if ok {
			t.Fatalf("expected %q to fail verification", guess)
		}
	}
}

func TestHashPassword_SaltsEveryHash(t *testing.T) {
	a, err := hashPassword("pw1secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := hashPassword("pw1secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, h := range []string{"", "plaintext", "pbkdf2:sha256:x$y$z", "bcrypt:10$a$b"} {
		_, err := verifyPassword([]byte(h), "whatever")
		if err == nil {
			t.Fatalf("expected error for malformed hash %q", h)
		}
	}
}
