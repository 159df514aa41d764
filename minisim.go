package kosmo

import "container/list"

// MiniSim evaluates a miss ratio curve the straightforward way: G
// independent fixed-capacity caches, one per grid point, each fed the
// whole trace. It exists as Kosmo's ground truth, not as a faster path —
// its cost is O(G) in both time and memory where Kosmo's is O(log n).
//
// Like Kosmo, MiniSim never samples on its own: a run driver (run.go) owns
// the single Shards decision per access and tells MiniSim the sampling
// rate in effect and which keys, if any, fall out of the sample.
type MiniSim struct {
	policy Policy
	grid   *Grid
	caches []miniCache
	seq    uint64
}

type miniCache interface {
	access(key uint64, size uint32, t uint64) bool
	contains(key uint64) bool
	evict(key uint64)
}

// NewMiniSim builds a MiniSim with one fixed-capacity cache per grid point.
func NewMiniSim(policy Policy, grid *Grid) *MiniSim {
	caches := make([]miniCache, len(grid.Sizes))
	for i, cap := range grid.Sizes {
		if policy.Kind == TwoQ {
			caches[i] = newTwoQCache(cap, policy.TwoQIn, policy.TwoQOut)
		} else {
			caches[i] = newOSCache(policy, cap)
		}
	}
	return &MiniSim{policy: policy, grid: grid, caches: caches}
}

// Resident reports whether key is currently tracked by any grid point's
// cache. Every cache is checked, since capacity pressure can drop a key
// from the smaller caches while the larger ones still hold it.
func (m *MiniSim) Resident(key uint64) bool {
	for _, c := range m.caches {
		if c.contains(key) {
			return true
		}
	}
	return false
}

// Evict drops key from every grid point's cache, if present. The run
// driver calls this when a shared Shards sampler reports that key has
// fallen out of the sample.
func (m *MiniSim) Evict(key uint64) {
	for _, c := range m.caches {
		c.evict(key)
	}
}

// Process handles one admitted GET access at sampling rate rate (1.0 for
// an unsampled run). size is rescaled by rate before being charged against
// any cache's capacity, so a sampled run's caches see the same admission
// pressure a full, unsampled run would have produced.
func (m *MiniSim) Process(key uint64, size uint32, rate float64) {
	m.seq++
	t := m.seq
	scaled := uint32(Scale(uint64(size), rate))

	for i, c := range m.caches {
		if c.access(key, scaled, t) {
			m.grid.hits[i]++
		} else {
			m.grid.misses[i]++
		}
	}
}

// Grid returns the accumulated hit/miss counters.
func (m *MiniSim) Grid() *Grid { return m.grid }

// osCache is a fixed-capacity cache backed by an ostree, used for every
// policy except 2Q: eviction repeatedly removes the current NextVictim
// until the tree's total resident bytes fits capacity.
type osCache struct {
	policy   Policy
	capacity uint64
	arena    *arena
	tree     *ostree
	index    map[uint64]int32
}

func newOSCache(policy Policy, capacity uint64) *osCache {
	c := &osCache{policy: policy, capacity: capacity, arena: newArena(), index: make(map[uint64]int32)}
	c.tree = newOSTree(treapSeed, func(a, b int32) bool { return policy.less(c.arena, a, b) }, c.arena.size)
	return c
}

func (c *osCache) contains(key uint64) bool {
	_, ok := c.index[key]
	return ok
}

func (c *osCache) evict(key uint64) {
	idx, ok := c.index[key]
	if !ok {
		return
	}
	delete(c.index, key)
	c.tree.Delete(idx)
	c.arena.release(idx)
}

func (c *osCache) access(key uint64, size uint32, t uint64) bool {
	idx, hit := c.index[key]
	if hit {
		c.tree.Delete(idx)
		e := c.arena.get(idx)
		e.size = size
		c.policy.onAccess(e, t)
		c.tree.Insert(idx)
	} else {
		idx = c.arena.alloc(entry{key: key, size: size})
		c.policy.onInsert(c.arena.get(idx), t)
		c.index[key] = idx
		c.tree.Insert(idx)
	}

	for c.tree.TotalBytes() > c.capacity && c.tree.Len() > 0 {
		victim, ok := c.tree.NextVictim()
		if !ok {
			break
		}
		delete(c.index, c.arena.get(victim).key)
		c.tree.Delete(victim)
		c.arena.release(victim)
	}
	return hit
}

// twoQCache is a fixed-capacity 2Q cache: A1in (probationary FIFO), A1out
// (ghost FIFO, byte-budgeted the same way as A1in even though it holds no
// data), and Am (protected LRU), implemented with container/list the way
// the teacher's segmented-LRU cache does.
type twoQCache struct {
	capacity  uint64
	kin, kout float64

	ain, aout, am       *list.List
	ainEl, aoutEl, amEl map[uint64]*list.Element

	ainBytes, aoutBytes, amBytes uint64
}

type twoQEntry struct {
	key  uint64
	size uint32
}

func newTwoQCache(capacity uint64, kin, kout float64) *twoQCache {
	return &twoQCache{
		capacity: capacity,
		kin:      kin,
		kout:     kout,
		ain:      list.New(),
		aout:     list.New(),
		am:       list.New(),
		ainEl:    make(map[uint64]*list.Element),
		aoutEl:   make(map[uint64]*list.Element),
		amEl:     make(map[uint64]*list.Element),
	}
}

func (c *twoQCache) contains(key uint64) bool {
	_, inAin := c.ainEl[key]
	_, inAm := c.amEl[key]
	return inAin || inAm
}

// evict drops key from whichever sub-structure currently holds it,
// including A1out, whose ghost entries must also stop being tracked once
// Shards has dropped the key from the sample.
func (c *twoQCache) evict(key uint64) {
	if e, ok := c.ainEl[key]; ok {
		te := e.Value.(*twoQEntry)
		c.ain.Remove(e)
		delete(c.ainEl, key)
		c.ainBytes -= uint64(te.size)
		return
	}
	if e, ok := c.amEl[key]; ok {
		te := e.Value.(*twoQEntry)
		c.am.Remove(e)
		delete(c.amEl, key)
		c.amBytes -= uint64(te.size)
		return
	}
	if e, ok := c.aoutEl[key]; ok {
		te := e.Value.(*twoQEntry)
		c.aout.Remove(e)
		delete(c.aoutEl, key)
		c.aoutBytes -= uint64(te.size)
	}
}

func (c *twoQCache) access(key uint64, size uint32, t uint64) bool {
	var hit bool

	switch {
	case c.ainEl[key] != nil:
		hit = true
		e := c.ainEl[key]
		te := e.Value.(*twoQEntry)
		c.ainBytes += uint64(size) - uint64(te.size)
		te.size = size
		// 2Q variant: a hit in A1in stays in A1in, no list move.

	case c.amEl[key] != nil:
		hit = true
		e := c.amEl[key]
		te := e.Value.(*twoQEntry)
		c.amBytes += uint64(size) - uint64(te.size)
		te.size = size
		c.am.MoveToFront(e)

	case c.aoutEl[key] != nil:
		// A1out holds only a ghost, not the data: a miss, but the key is
		// promoted straight to Am.
		hit = false
		e := c.aoutEl[key]
		te := e.Value.(*twoQEntry)
		c.aout.Remove(e)
		delete(c.aoutEl, key)
		c.aoutBytes -= uint64(te.size)

		ne := c.am.PushFront(&twoQEntry{key: key, size: size})
		c.amEl[key] = ne
		c.amBytes += uint64(size)

	default:
		hit = false
		ne := c.ain.PushBack(&twoQEntry{key: key, size: size})
		c.ainEl[key] = ne
		c.ainBytes += uint64(size)
	}

	c.reduce()
	return hit
}

func (c *twoQCache) reduce() {
	inBudget := uint64(c.kin * float64(c.capacity))
	for c.ainBytes > inBudget && c.ain.Len() > 0 {
		front := c.ain.Front()
		te := front.Value.(*twoQEntry)
		c.ain.Remove(front)
		delete(c.ainEl, te.key)
		c.ainBytes -= uint64(te.size)

		ge := c.aout.PushBack(te)
		c.aoutEl[te.key] = ge
		c.aoutBytes += uint64(te.size)
	}

	outBudget := uint64(c.kout * float64(c.capacity))
	for c.aoutBytes > outBudget && c.aout.Len() > 0 {
		front := c.aout.Front()
		te := front.Value.(*twoQEntry)
		c.aout.Remove(front)
		delete(c.aoutEl, te.key)
		c.aoutBytes -= uint64(te.size)
	}

	for c.ainBytes+c.amBytes > c.capacity && c.am.Len() > 0 {
		back := c.am.Back()
		te := back.Value.(*twoQEntry)
		c.am.Remove(back)
		delete(c.amEl, te.key)
		c.amBytes -= uint64(te.size)
	}
}
