package cache

import "testing"

func TestInitialState(t *testing.T) {
	c := New[int]()
	data, loading := c.Get()
	if !loading {
		t.Fatal("new cache must report loading")
	}
	if len(data) != 0 {
		t.Fatalf("new cache must be empty, got %d entries", len(data))
	}
}

func TestReplaceAndLoading(t *testing.T) {
	c := New[string]()
	c.Replace([]string{"a", "b"})
	c.SetLoading(false)

	data, loading := c.Get()
	if loading {
		t.Fatal("expected loading cleared")
	}
	if len(data) != 2 || data[0] != "a" || data[1] != "b" {
		t.Fatalf("unexpected data: %v", data)
	}
	if c.Len() != 2 {
		t.Fatalf("expected Len 2, got %d", c.Len())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	c := New[int]()
	src := []int{1, 2, 3}
	c.Replace(src)

	// Mutating the source after Replace must not leak into the cache.
	src[0] = 99
	got, _ := c.Get()
	if got[0] != 1 {
		t.Fatalf("Replace did not copy: %v", got)
	}

	// Mutating a snapshot must not leak back either.
	got[1] = 99
	again, _ := c.Get()
	if again[1] != 2 {
		t.Fatalf("Get did not copy: %v", again)
	}
}
