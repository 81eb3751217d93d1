package cache

import (
	"sync"
	"testing"
	"time"
)

// TestCache_BasicOperations tests Get, Set, and Delete.
func TestCache_BasicOperations(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)

	t.Run("Set and Get", func(t *testing.T) {
		c.Set("list:device", []int{1, 2})

		val, found := c.Get("list:device")
		if !found {
			t.Fatal("expected list:device to be found")
		}
		if got := val.([]int); len(got) != 2 {
			t.Errorf("expected 2 items, got %v", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		if _, found := c.Get("nonexistent"); found {
			t.Error("expected nonexistent key to not be found")
		}
	})

	t.Run("Set and Delete", func(t *testing.T) {
		c.Set("key2", "value2")
		c.Delete("key2")

		if _, found := c.Get("key2"); found {
			t.Error("expected key2 to be deleted")
		}
	})
}

func TestKey(t *testing.T) {
	if got := Key("get", "device", "1"); got != "get:device:1" {
		t.Errorf("Key() = %q", got)
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	c.Set(Key("list", "device"), 1)
	c.Set(Key("get", "device", "1"), 2)
	c.Set(Key("get", "device", "2"), 3)
	c.Set(Key("get", "add-on", "1"), 4)

	if n := c.DeletePrefix(Key("get", "device") + ":"); n != 2 {
		t.Errorf("expected 2 deletions, got %d", n)
	}
	if c.ItemCount() != 2 {
		t.Errorf("expected 2 items left, got %d", c.ItemCount())
	}
	if _, found := c.Get(Key("get", "add-on", "1")); !found {
		t.Error("expected add-on entry to survive")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	for i := range 10 {
		c.Set(Key("form", "device", string(rune('0'+i))), i)
	}
	if c.ItemCount() != 10 {
		t.Fatalf("expected 10 items, got %d", c.ItemCount())
	}

	c.Clear()
	if c.ItemCount() != 0 {
		t.Errorf("expected empty cache, got %d items", c.ItemCount())
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New(50*time.Millisecond, time.Minute)
	c.Set("expiring", "value")

	if _, found := c.Get("expiring"); !found {
		t.Error("expected key to exist immediately")
	}

	time.Sleep(100 * time.Millisecond)

	if _, found := c.Get("expiring"); found {
		t.Error("expected key to be expired")
	}
}

// TestCache_Concurrent tests concurrent access under the race detector.
func TestCache_Concurrent(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("list", string(rune('a'+i)))
			c.Set(key, i)
			c.Get(key)
			c.DeletePrefix("get:")
		}(i)
	}
	wg.Wait()

	if c.ItemCount() != 20 {
		t.Errorf("expected 20 items, got %d", c.ItemCount())
	}
}
