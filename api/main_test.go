package main

import "testing"

func TestEnvOr(t *testing.T) {
	t.Setenv("PORT", "8080")
	if got := envOr("PORT", "3000"); got != "8080" {
		t.Fatalf("expected the environment value, got %q", got)
	}
	if got := envOr("UNSET_CONFIG_KEY", "fallback"); got != "fallback" {
		t.Fatalf("expected the default, got %q", got)
	}
}
