package kosmo

import "testing"

func TestLRUKosmoMatchesMiniSim(t *testing.T) {
	trace := []struct {
		key  uint64
		size uint32
	}{
		{1, 10}, {2, 10}, {3, 10}, {1, 10}, {4, 10}, {2, 10}, {1, 10}, {5, 10}, {3, 10},
	}

	kosmoGrid := NewGrid(50)
	kosmoSim := NewKosmo(Policy{Kind: LRU}, kosmoGrid)

	miniGrid := NewGrid(50)
	miniSim := NewMiniSim(Policy{Kind: LRU}, miniGrid)

	for _, a := range trace {
		kosmoSim.Process(a.key, a.size, 1.0)
		miniSim.Process(a.key, a.size, 1.0)
	}

	for i := range kosmoGrid.Sizes {
		if kosmoGrid.Hits(i) != miniGrid.Hits(i) {
			t.Fatalf("grid point %d (size=%d): kosmo hits=%d, minisim hits=%d",
				i, kosmoGrid.Sizes[i], kosmoGrid.Hits(i), miniGrid.Hits(i))
		}
	}
}

func TestTwoQCacheEvictsUnderPressure(t *testing.T) {
	c := newTwoQCache(100, 0.25, 0.5)
	for key := uint64(1); key <= 20; key++ {
		c.access(key, 10, key)
	}
	total := c.ainBytes + c.amBytes
	if total > c.capacity {
		t.Fatalf("resident bytes %d exceed capacity %d", total, c.capacity)
	}
}

func TestOSCacheEvictsUnderPressure(t *testing.T) {
	c := newOSCache(Policy{Kind: LRU}, 100)
	for key := uint64(1); key <= 20; key++ {
		c.access(key, 10, key)
	}
	if got := c.tree.TotalBytes(); got > c.capacity {
		t.Fatalf("resident bytes %d exceed capacity %d", got, c.capacity)
	}
}
