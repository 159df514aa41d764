package kosmo

import "testing"

func TestKosmoFIFOTwoObjectEviction(t *testing.T) {
	policy := Policy{Kind: FIFO}
	grid := NewGrid(100) // sizes: 1..100, but NewGrid caps points at 100
	k := NewKosmo(policy, grid)

	k.Process(1, 50, 1.0) // t=1: miss, k=1 inserted
	k.Process(2, 50, 1.0) // t=2: miss, k=2 inserted
	k.Process(1, 50, 1.0) // t=3: re-access of k=1; k=2 sits ahead of it (inserted after)

	// At the third access, the only entry less evictable than k=1 is k=2
	// (50 bytes): the reuse byte-distance is exactly 50. Grid points at
	// or above 50 must have counted the re-access as a hit; points below
	// must have counted it as a miss too.
	for i, size := range grid.Sizes {
		total := grid.Hits(i) + grid.Misses(i)
		if total != 3 {
			t.Fatalf("grid point %d (size=%d): total observations = %d, want 3", i, size, total)
		}
		if size >= 50 {
			if grid.Misses(i) != 2 {
				t.Fatalf("grid point %d (size=%d): misses = %d, want 2 (only the two first-touch misses)", i, size, grid.Misses(i))
			}
		} else {
			if grid.Misses(i) != 3 {
				t.Fatalf("grid point %d (size=%d): misses = %d, want 3 (re-access also misses below 50)", i, size, grid.Misses(i))
			}
		}
	}
}

func TestKosmoSingleKeyAlwaysHitsAfterFirstTouch(t *testing.T) {
	for _, kind := range []PolicyKind{LRU, FIFO, LFU, LRFU, TwoQ} {
		policy := Policy{Kind: kind, Lambda: 0.5, TwoQIn: 0.25, TwoQOut: 0.5}
		grid := NewGrid(10)
		k := NewKosmo(policy, grid)

		for i := 0; i < 5; i++ {
			k.Process(42, 10, 1.0)
		}

		for i := range grid.Sizes {
			// A single key repeatedly re-accessed has no other resident
			// entries ahead of it, so its reuse byte-distance is always
			// 0: every grid point hits on every access after the first.
			if grid.Misses(i) != 1 {
				t.Fatalf("policy %v grid point %d: misses = %d, want 1", kind, i, grid.Misses(i))
			}
			if grid.Hits(i) != 4 {
				t.Fatalf("policy %v grid point %d: hits = %d, want 4", kind, i, grid.Hits(i))
			}
		}
	}
}

func TestGridSumInvariant(t *testing.T) {
	grid := NewGrid(50)
	k := NewKosmo(Policy{Kind: LRU}, grid)
	keys := []uint64{1, 2, 3, 1, 2, 4, 1}
	for _, key := range keys {
		k.Process(key, 5, 1.0)
	}
	for i := range grid.Sizes {
		if got := grid.Hits(i) + grid.Misses(i); got != uint64(len(keys)) {
			t.Fatalf("grid point %d: hits+misses = %d, want %d", i, got, len(keys))
		}
	}
}
