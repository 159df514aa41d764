package kosmo

import "testing"

func TestArenaAllocReusesFreedSlots(t *testing.T) {
	a := newArena()
	i0 := a.alloc(entry{key: 1})
	i1 := a.alloc(entry{key: 2})
	a.release(i0)
	i2 := a.alloc(entry{key: 3})
	if i2 != i0 {
		t.Fatalf("alloc after release = %d, want reused index %d", i2, i0)
	}
	if a.get(i1).key != 2 {
		t.Fatalf("unreleased entry corrupted: key = %d, want 2", a.get(i1).key)
	}
}

func TestArenaSize(t *testing.T) {
	a := newArena()
	idx := a.alloc(entry{key: 1, size: 42})
	if a.size(idx) != 42 {
		t.Fatalf("size = %d, want 42", a.size(idx))
	}
}
