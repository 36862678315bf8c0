package cache

import (
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := New[int](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for absent key")
	}

	c.Set("a", 1)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", got, ok)
	}

	c.Set("a", 2)
	got, _ = c.Get("a")
	if got != 2 {
		t.Fatalf("Get(a) after overwrite = %d; want 2", got)
	}
	if c.Size() != 1 {
		t.Fatalf("Size = %d; want 1", c.Size())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // a becomes most recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive eviction")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New[int](4, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestCacheDeletePrefix(t *testing.T) {
	c := New[int](8, time.Minute)

	c.Set("insights:2024-03:ledger", 1)
	c.Set("insights:2024-03:trends", 2)
	c.Set("insights:2024-04:ledger", 3)

	if removed := c.DeletePrefix("insights:2024-03"); removed != 2 {
		t.Fatalf("DeletePrefix removed %d; want 2", removed)
	}
	if _, ok := c.Get("insights:2024-04:ledger"); !ok {
		t.Fatal("expected other month to survive")
	}
}

func TestCacheCleanExpired(t *testing.T) {
	c := New[int](8, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("CleanExpired removed %d; want 2", removed)
	}
	if c.Size() != 0 {
		t.Fatalf("Size = %d; want 0", c.Size())
	}
}
