package kosmo

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// shardsModulus is P from the design notes: hash values are taken modulo
// this constant, and the sampling threshold lives in the same space.
const shardsModulus = 1 << 24

// Shards decides, for each key, whether it belongs to the sample the
// simulator core actually processes, and rescales byte sizes and reuse
// distances for the keys that do. Two modes are supported: fixed-rate
// (static threshold, sampling ratio R is constant) and fixed-size (dynamic
// threshold, shrinking to hold at most S_max sampled keys, sampling ratio
// changes over the run).
//
// A single Shards instance is shared across every simulator in a run: the
// run driver calls Admit exactly once per access and hands the same
// decision to every active simulator, so Kosmo and MiniSim see the
// identical admitted sequence and the identical sampling decisions.
type Shards struct {
	fixedSize bool

	// Fixed-rate: constant threshold derived from R.
	threshold uint64

	// Fixed-size: adaptive threshold, shrinks as the sample fills.
	sMax     int
	heap     *MinHeap[shardsItem]
	admitted map[uint64]uint64 // key -> hash, for eviction lookups
	globalT  uint64

	totalSeen     uint64
	admittedCount uint64
}

func hashKey(key uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], key)
	return xxhash.Sum64(b[:]) % shardsModulus
}

// NewFixedRate builds a fixed-rate sampler admitting a fraction rate of
// keys, by hash value, where rate is in (0, 1].
func NewFixedRate(rate float64) *Shards {
	return &Shards{threshold: uint64(rate * float64(shardsModulus))}
}

// NewFixedSize builds a fixed-size sampler that holds at most sMax sampled
// keys at any point in the run, shrinking its effective rate as needed.
func NewFixedSize(sMax int) *Shards {
	return &Shards{
		fixedSize: true,
		sMax:      sMax,
		threshold: shardsModulus,
		globalT:   shardsModulus,
		heap:      NewMinHeap[shardsItem](),
		admitted:  make(map[uint64]uint64, sMax),
	}
}

type shardsItem struct {
	key  uint64
	hash uint64
}

// Less orders by descending hash, so the heap's extracted minimum is the
// sample's highest-hash (and therefore first-to-evict) member.
func (a shardsItem) Less(b *shardsItem) bool { return a.hash > b.hash }

// Admit reports whether key belongs to the sample, and the sampling ratio
// R currently in effect (1/R scales byte sizes and reuse distances back up
// to full-trace terms). When fixed-size sampling's threshold shrinks and
// the sample overflows, Admit also reports the one key evicted from the
// sample as a result: the caller must evict that key from every downstream
// simulator it drives, not just rely on Shards' own bookkeeping, or those
// simulators go on tracking a key the sample no longer covers.
func (s *Shards) Admit(key uint64) (admit bool, r float64, evictedKey uint64, evicted bool) {
	s.totalSeen++
	h := hashKey(key)

	if !s.fixedSize {
		admit = h < s.threshold
		if admit {
			s.admittedCount++
		}
		return admit, float64(s.threshold) / float64(shardsModulus), 0, false
	}

	if _, ok := s.admitted[key]; ok {
		s.admittedCount++
		return true, s.rate(), 0, false
	}
	if h >= s.globalT {
		return false, s.rate(), 0, false
	}

	s.admitted[key] = h
	s.heap.Insert(&shardsItem{key: key, hash: h})
	s.admittedCount++
	if len(s.admitted) > s.sMax {
		victim, ok := s.heap.Extract()
		if ok {
			delete(s.admitted, victim.key)
			s.globalT = victim.hash
			if victim.key == key {
				// The new key has the highest hash: it falls out of the
				// sample at once and is not admitted.
				s.admittedCount--
				return false, s.rate(), 0, false
			}
			return true, s.rate(), victim.key, true
		}
	}
	return true, s.rate(), 0, false
}

func (s *Shards) rate() float64 {
	if !s.fixedSize {
		return float64(s.threshold) / float64(shardsModulus)
	}
	return float64(s.globalT) / float64(shardsModulus)
}

// Correction returns Δ = expected - observed_admitted, the miss-ratio
// denominator correction spec.md §4.4/§4.5 requires sampled runs to apply:
// misses_i / (hits_i + misses_i + Δ). expected is how many of the accesses
// Shards has seen its final sampling rate would admit; observed_admitted is
// how many it actually admitted over the course of the run. Under fixed-size
// sampling observed_admitted typically exceeds expected, because accesses
// seen before the threshold shrank were admitted at a higher rate, so Δ is
// then negative. At rate 1 the two are equal and Δ is zero, so unsampled
// runs are unaffected.
func (s *Shards) Correction() float64 {
	expected := float64(s.totalSeen) * s.rate()
	return expected - float64(s.admittedCount)
}

// Scale rescales a sampled byte quantity (a size or a reuse byte-distance)
// up to full-trace terms under the current sampling ratio r.
func Scale(v uint64, r float64) uint64 {
	if r <= 0 {
		return v
	}
	return uint64(float64(v) / r)
}
