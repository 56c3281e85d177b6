package util

import (
	"context"
	"testing"
	"time"
)

func TestContentHash(t *testing.T) {
	a := ContentHash("(likes Alice Bob)", "auto", "undirected")
	b := ContentHash("(likes Alice Bob)", "auto", "undirected")
	if a != b {
		t.Fatal("same inputs must hash identically")
	}

	c := ContentHash("(likes Alice Bob)", "sexpr", "undirected")
	if a == c {
		t.Fatal("configuration changes must change the key")
	}

	// Part boundaries matter: ("ab","c") != ("a","bc").
	if ContentHash("x", "ab", "c") == ContentHash("x", "a", "bc") {
		t.Fatal("part boundaries must be part of the key")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := Truncate("a longer snippet of text", 10); len(got) > 10 {
		t.Errorf("expected at most 10 chars, got %q", got)
	}
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(1, 1)
	if !l.Allow(1) {
		t.Fatal("first event should pass")
	}
	if l.Allow(1) {
		t.Fatal("burst exhausted, second immediate event should be limited")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Wait(ctx, 1); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
}
