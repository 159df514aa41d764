package kosmo

import "testing"

func TestBatcherFlushesAtSize(t *testing.T) {
	var flushes [][]int
	b := NewBatcher(3, func(items []int) {
		cp := make([]int, len(items))
		copy(cp, items)
		flushes = append(flushes, cp)
	})
	for i := 1; i <= 7; i++ {
		b.Add(i)
	}
	b.Close()

	want := [][]int{{1, 2, 3}, {4, 5, 6}, {7}}
	if len(flushes) != len(want) {
		t.Fatalf("got %d flushes, want %d", len(flushes), len(want))
	}
	for i := range want {
		if len(flushes[i]) != len(want[i]) {
			t.Fatalf("flush %d: len = %d, want %d", i, len(flushes[i]), len(want[i]))
		}
		for j := range want[i] {
			if flushes[i][j] != want[i][j] {
				t.Fatalf("flush %d item %d: got %d, want %d", i, j, flushes[i][j], want[i][j])
			}
		}
	}
}

func TestBatcherCloseNoOpWhenEmpty(t *testing.T) {
	calls := 0
	b := NewBatcher(3, func(items []int) { calls++ })
	b.Close()
	if calls != 0 {
		t.Fatalf("Close flushed %d times on an empty batcher, want 0", calls)
	}
}
