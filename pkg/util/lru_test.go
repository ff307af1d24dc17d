package util

import (
	"testing"
	"time"
)

func TestLRUCache_CapacityEviction(t *testing.T) {
	c, err := NewWithConfig(CacheConfig[string, int]{Capacity: 2})
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}
	c.Put("a", 1, 1)
	c.Put("b", 2, 1)
	c.Put("c", 3, 1)

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = (%d, %v), want (3, true)", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRUCache_GetRefreshesRecency(t *testing.T) {
	c, _ := NewWithConfig(CacheConfig[string, int]{Capacity: 2})
	c.Put("a", 1, 1)
	c.Put("b", 2, 1)
	c.Get("a") // now "b" is the least recently used
	c.Put("c", 3, 1)

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
}

func TestLRUCache_WeightEviction(t *testing.T) {
	c, _ := NewWithConfig(CacheConfig[string, string]{MaxWeight: 10})
	c.Put("small", "x", 4)
	c.Put("big", "y", 8) // exceeds 10, evicts "small"

	if _, ok := c.Get("small"); ok {
		t.Error("weight overflow should evict older entries")
	}
	if c.Weight() != 8 {
		t.Errorf("Weight() = %d, want 8", c.Weight())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c, _ := NewWithConfig(CacheConfig[string, int]{Capacity: 4, TTL: 20 * time.Millisecond})
	c.Put("a", 1, 1)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry should be readable before expiry")
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should expire after its TTL")
	}
}

func TestLRUCache_RequiresALimit(t *testing.T) {
	if _, err := NewWithConfig(CacheConfig[string, int]{}); err == nil {
		t.Error("expected error when neither capacity nor weight is set")
	}
}
