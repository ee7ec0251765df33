package cache

import (
	"context"
	"testing"
	"time"
)

// TestMemoryRoundTrip verifies basic set/get/delete behaviour.
func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get(missing) = hit, want miss")
	}

	c.Set(ctx, "doc:1", []byte("payload"))
	got, ok := c.Get(ctx, "doc:1")
	if !ok || string(got) != "payload" {
		t.Errorf("Get = (%q, %v), want (payload, true)", got, ok)
	}

	c.Delete(ctx, "doc:1")
	if _, ok := c.Get(ctx, "doc:1"); ok {
		t.Error("Get after Delete = hit, want miss")
	}
}

// TestMemoryTTLExpiry verifies entries expire after the TTL.
func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set(ctx, "doc:1", []byte("payload"))

	if _, ok := c.Get(ctx, "doc:1"); !ok {
		t.Fatal("Get before expiry = miss, want hit")
	}

	c.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, ok := c.Get(ctx, "doc:1"); ok {
		t.Error("Get after expiry = hit, want miss")
	}
}

// TestMemoryOverwrite verifies Set replaces an existing value.
func TestMemoryOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	c.Set(ctx, "k", []byte("one"))
	c.Set(ctx, "k", []byte("two"))
	got, _ := c.Get(ctx, "k")
	if string(got) != "two" {
		t.Errorf("Get = %q, want two", got)
	}
}
