package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Minute)
	if v, ok := c.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("get after set: %q %v", v, ok)
	}
	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatalf("unexpected hit for missing key")
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()

	c.Set(ctx, "k", "v", -time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expired entry should miss")
	}
}

func TestMemory_LRUEviction(t *testing.T) {
	c := NewMemory(2)
	ctx := context.Background()

	c.Set(ctx, "a", "1", 0)
	c.Set(ctx, "b", "2", 0)
	c.Get(ctx, "a") // a is now MRU
	c.Set(ctx, "c", "3", 0)

	if _, ok := c.Get(ctx, "b"); ok {
		t.Fatalf("expected LRU entry b to be evicted")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatalf("recently used entry a should survive")
	}
	if _, ok := c.Get(ctx, "c"); !ok {
		t.Fatalf("newest entry c should be present")
	}
}

func TestKey_NormalizesWhitespaceAndCase(t *testing.T) {
	if Key("  How DO i   reset? ") != Key("how do i reset?") {
		t.Fatalf("keys should match after normalization")
	}
	if Key("question one") == Key("question two") {
		t.Fatalf("different messages must not collide trivially")
	}
}
