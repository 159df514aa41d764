package trace

import "math/rand"

// Generator produces a bounded sequence of Access records. It is the
// in-memory counterpart to Reader, used by tests that need a trace without
// a fixture file on disk.
type Generator func() (Access, bool)

// NewUniform returns a Generator of n GET accesses with keys drawn
// uniformly from [0, keys), each of the given size.
func NewUniform(seed int64, keys, n uint64, size uint32) Generator {
	rnd := rand.New(rand.NewSource(seed))
	var i, t uint64
	return func() (Access, bool) {
		if i >= n {
			return Access{}, false
		}
		i++
		t++
		return Access{Timestamp: t, Op: Get, Key: uint64(rnd.Int63n(int64(keys))), Size: size}, true
	}
}

// NewZipfian returns a Generator of n GET accesses with keys drawn from a
// Zipfian distribution over [0, keys) with skew s (s > 1; closer to 1 is
// flatter).
func NewZipfian(seed int64, s float64, keys, n uint64, size uint32) Generator {
	rnd := rand.New(rand.NewSource(seed))
	z := rand.NewZipf(rnd, s, 1, keys-1)
	var i, t uint64
	return func() (Access, bool) {
		if i >= n {
			return Access{}, false
		}
		i++
		t++
		return Access{Timestamp: t, Op: Get, Key: z.Uint64(), Size: size}, true
	}
}

// Collect drains g into a slice, for callers that want a concrete trace
// rather than a pull-based one.
func Collect(g Generator) []Access {
	var out []Access
	for {
		a, ok := g()
		if !ok {
			return out
		}
		out = append(out, a)
	}
}
