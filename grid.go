package kosmo

// GridPoints is G, the number of cache sizes a run evaluates, linearly
// spaced from wss/G to wss inclusive.
const GridPoints = 100

// Grid holds one hit/miss counter pair per evaluated cache size.
type Grid struct {
	Sizes  []uint64
	hits   []uint64
	misses []uint64

	// correction is Δ from a shared Shards sampler, added to every grid
	// point's miss-ratio denominator. Zero for unsampled runs.
	correction float64
}

// NewGrid builds a Grid of min(GridPoints, wss) linearly spaced sizes
// covering [wss/points, wss]. When wss itself is smaller than GridPoints,
// one size per byte of working set is used instead of G evenly spaced ones,
// matching the accurate reference curve's behavior at small working sets.
func NewGrid(wss uint64) *Grid {
	points := uint64(GridPoints)
	if wss < points {
		points = wss
	}
	if points == 0 {
		points = 1
	}
	g := &Grid{
		Sizes:  make([]uint64, points),
		hits:   make([]uint64, points),
		misses: make([]uint64, points),
	}
	step := float64(wss) / float64(points)
	for i := range g.Sizes {
		g.Sizes[i] = uint64(step * float64(i+1))
		if g.Sizes[i] == 0 {
			g.Sizes[i] = 1
		}
	}
	return g
}

// Observe records a hit at every grid point whose size is large enough to
// have kept the access resident (cap >= b), and a miss everywhere else.
// b is the reuse byte-distance computed by a simulator for this access.
func (g *Grid) Observe(b uint64) {
	for i, cap := range g.Sizes {
		if cap >= b {
			g.hits[i]++
		} else {
			g.misses[i]++
		}
	}
}

// SetCorrection sets Δ, the SHARDS denominator correction term from
// spec.md §4.4/§4.5, applied uniformly to every grid point's miss ratio.
// Every grid point shares the same Δ because it is a property of the
// sampling process (how many accesses Shards admitted versus how many its
// final rate implies it should have), not of any one cache size.
func (g *Grid) SetCorrection(delta float64) { g.correction = delta }

// MissRatio returns the miss ratio at grid point i: misses_i / (hits_i +
// misses_i + Δ), per spec.md §4.4/§4.5. A grid point with no observations
// at all reports 1.0 rather than NaN or 0: spec.md §8 requires the two to
// be told apart consistently, and 1.0 (miss ratio of a cache that was never
// exercised, i.e. never big enough to hold anything) keeps downstream MAE
// and curve-plotting code free of NaN propagation while still being
// distinguishable from "always hit."
func (g *Grid) MissRatio(i int) float64 {
	total := g.hits[i] + g.misses[i]
	if total == 0 {
		return 1.0
	}
	denom := float64(total) + g.correction
	if denom < float64(total) {
		// A negative Δ (the usual case under fixed-size sampling) is not
		// applied, so the ratio never exceeds misses_i / (hits_i + misses_i).
		denom = float64(total)
	}
	return float64(g.misses[i]) / denom
}

// Hits and Misses expose the raw counters, mainly for tests asserting the
// grid-sum invariant (hits[i] + misses[i] is constant across i).
func (g *Grid) Hits(i int) uint64   { return g.hits[i] }
func (g *Grid) Misses(i int) uint64 { return g.misses[i] }
