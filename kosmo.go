package kosmo

// treapSeed fixes every ostree's treap priorities so that two runs over the
// same trace, with the same policy and sampling, produce bit-identical
// miss ratios.
const treapSeed = 0x4b6f736d6f // "Kosmo" in hex, arbitrary but fixed.

// Kosmo is the single-pass, all-cache-sizes-at-once simulator. One run
// produces a full miss ratio curve in one sweep over the trace, regardless
// of how many grid points the curve has.
//
// The five eviction policies (LRU, FIFO, LFU, LRFU, 2Q) share one
// augmented order-statistic tree. 2Q's three sub-structures (A1in, A1out,
// Am) are realized as one tree whose comparator ranks by sub-structure tag
// first and intra-structure recency second — Kosmo only ever needs the
// resulting global rank to compute a prefix-byte-sum, never a per-
// structure capacity check, so a single tree suffices where MiniSim (which
// does perform per-structure eviction) keeps the structures separate.
//
// Kosmo never samples on its own: a run driver (run.go) owns the single
// Shards decision per access and tells Kosmo the sampling rate in effect
// and which keys, if any, fall out of the sample, via Process and Evict.
type Kosmo struct {
	policy Policy
	arena  *arena
	tree   *ostree
	index  map[uint64]int32
	grid   *Grid
	seq    uint64
}

// NewKosmo builds a Kosmo simulator for the given policy and grid.
func NewKosmo(policy Policy, grid *Grid) *Kosmo {
	k := &Kosmo{
		policy: policy,
		arena:  newArena(),
		index:  make(map[uint64]int32),
		grid:   grid,
	}
	k.tree = newOSTree(treapSeed, k.less, k.arena.size)
	return k
}

func (k *Kosmo) less(a, b int32) bool { return k.policy.less(k.arena, a, b) }

// Resident reports whether key is currently tracked.
func (k *Kosmo) Resident(key uint64) bool {
	_, ok := k.index[key]
	return ok
}

// Evict drops key from the tree, index and arena, if present. The run
// driver calls this when a shared Shards sampler reports that key has
// fallen out of the sample, so Kosmo stops tracking keys the sample no
// longer covers.
func (k *Kosmo) Evict(key uint64) {
	idx, ok := k.index[key]
	if !ok {
		return
	}
	delete(k.index, key)
	k.tree.Delete(idx)
	k.arena.release(idx)
}

// Process handles one admitted GET access at sampling rate rate (1.0 for
// an unsampled run). SET accesses never reach Process: the trace reader's
// caller is responsible for filtering to GETs only, and the run driver is
// responsible for gating calls on its own Shards admission decision.
func (k *Kosmo) Process(key uint64, size uint32, rate float64) {
	k.seq++
	t := k.seq

	idx, resident := k.index[key]
	if !resident {
		idx = k.arena.alloc(entry{key: key, size: size})
		k.policy.onInsert(k.arena.get(idx), t)
		k.index[key] = idx
		k.tree.Insert(idx)
		// A first touch is a miss at every grid point: there is no
		// reuse distance to compare, so it never satisfies any
		// capacity.
		k.grid.Observe(^uint64(0))
		return
	}

	b := k.tree.PrefixBytes(idx)
	k.grid.Observe(Scale(b, rate))

	k.tree.Delete(idx)
	e := k.arena.get(idx)
	e.size = size
	k.policy.onAccess(e, t)
	k.tree.Insert(idx)
}

// Grid returns the accumulated hit/miss counters.
func (k *Kosmo) Grid() *Grid { return k.grid }
