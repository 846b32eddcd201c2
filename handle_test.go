package spatialq

import "testing"

func TestHandle_FlatRoundTrip(t *testing.T) {
	tests := []ColliderHandle{
		{Index: 0, Generation: 1},
		{Index: 7, Generation: 3},
		{Index: 0xFFFFFFFF, Generation: 0xFFFFFFFF},
	}
	for _, h := range tests {
		if got := ColliderHandleFromFlat(h.Flat()); got != h {
			t.Errorf("round trip of %v gave %v", h, got)
		}
	}

	h := RigidBodyHandle{Index: 2, Generation: 5}
	if h.Flat() != FlatHandle(5<<32|2) {
		t.Errorf("Expected index in the low bits, got %x", uint64(h.Flat()))
	}
	if RigidBodyHandleFromFlat(h.Flat()) != h {
		t.Error("Body handle round trip failed")
	}
	if (ColliderHandle{}).IsValid() {
		t.Error("Expected the zero handle to be invalid")
	}
}

func TestArena_Staleness(t *testing.T) {
	var arena Arena[string]
	a := arena.Insert("a")
	b := arena.Insert("b")

	if v, ok := arena.Get(a); !ok || v != "a" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := arena.Remove(a); !ok {
		t.Fatal("Expected to remove a")
	}
	if arena.Contains(a) {
		t.Error("Expected a stale handle not to resolve")
	}
	if _, ok := arena.Remove(a); ok {
		t.Error("Expected a second remove to fail")
	}

	c := arena.Insert("c")
	if c.Index != a.Index {
		t.Errorf("Expected slot %d to be reused, got %d", a.Index, c.Index)
	}
	if c.Generation == a.Generation {
		t.Error("Expected the reused slot to get a new generation")
	}
	if _, ok := arena.Get(a); ok {
		t.Error("Expected the old handle to stay stale after reuse")
	}
	if arena.Len() != 2 {
		t.Errorf("Expected 2 values, got %d", arena.Len())
	}

	var seen []string
	arena.Each(func(_ ArenaIndex, v string) bool {
		seen = append(seen, v)
		return true
	})
	if len(seen) != 2 || seen[0] != "c" || seen[1] != "b" {
		t.Errorf("Each visited %v", seen)
	}
	if !arena.Contains(b) {
		t.Error("Expected b to survive")
	}
}
