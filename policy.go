package kosmo

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PolicyKind names one of the five supported eviction orderings.
type PolicyKind uint8

const (
	LRU PolicyKind = iota
	FIFO
	LFU
	LRFU
	TwoQ
)

func (k PolicyKind) String() string {
	switch k {
	case LRU:
		return "lru"
	case FIFO:
		return "fifo"
	case LFU:
		return "lfu"
	case LRFU:
		return "lrfu"
	case TwoQ:
		return "2q"
	default:
		return "unknown"
	}
}

// Policy is a tagged variant carrying a PolicyKind plus whatever tunables
// that kind needs. One value travels everywhere a "which eviction order"
// decision is needed, instead of an interface implementation per kind.
type Policy struct {
	Kind PolicyKind

	// LRFU decay rate. Default 0.5.
	Lambda float64

	// 2Q sub-structure size ratios, relative to cache capacity.
	// Defaults 0.25 (A1in) and 0.50 (A1out ghost budget).
	TwoQIn, TwoQOut float64
}

// ParsePolicy decodes a policy tag such as "lfu", "lrfu-2.0-0.5", or
// "2q-0.25-0.5" as accepted on the --kosmo-policy/--minisim-policy flags.
// Tunables are optional dash-separated suffixes; defaults apply when absent.
func ParsePolicy(tag string) (Policy, error) {
	parts := strings.Split(tag, "-")
	switch parts[0] {
	case "lru":
		return Policy{Kind: LRU}, nil
	case "fifo":
		return Policy{Kind: FIFO}, nil
	case "lfu":
		return Policy{Kind: LFU}, nil
	case "lrfu":
		p := Policy{Kind: LRFU, Lambda: 0.5}
		if len(parts) >= 2 {
			lambda, err := strconv.ParseFloat(parts[len(parts)-1], 64)
			if err != nil {
				return Policy{}, errors.Wrapf(ErrArgumentInvalid, "lrfu lambda %q: %v", tag, err)
			}
			p.Lambda = lambda
		}
		return p, nil
	case "2q":
		p := Policy{Kind: TwoQ, TwoQIn: 0.25, TwoQOut: 0.50}
		if len(parts) == 3 {
			in, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return Policy{}, errors.Wrapf(ErrArgumentInvalid, "2q kin %q: %v", tag, err)
			}
			out, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return Policy{}, errors.Wrapf(ErrArgumentInvalid, "2q kout %q: %v", tag, err)
			}
			p.TwoQIn, p.TwoQOut = in, out
		}
		return p, nil
	default:
		return Policy{}, errors.Wrapf(ErrArgumentInvalid, "unknown policy tag %q", tag)
	}
}

// rankKey is the comparable projection of an entry under a Policy: entries
// are ordered "least evictable first" by (tag, primary, secondary), with
// idx as the final, always-distinct tiebreak. Every ostree in this module
// is driven by one of these.
type rankKey struct {
	tag       twoQTag
	primary   float64
	secondary float64
}

func (p Policy) rankKey(e *entry) rankKey {
	switch p.Kind {
	case LRU:
		return rankKey{primary: float64(e.lastAccess)}
	case FIFO:
		return rankKey{primary: float64(e.insSeq)}
	case LFU:
		return rankKey{primary: float64(e.freq), secondary: float64(e.lastAccess)}
	case LRFU:
		return rankKey{primary: e.crf}
	case TwoQ:
		return rankKey{tag: e.twoQTag, primary: float64(e.twoQOrder)}
	default:
		return rankKey{}
	}
}

// less reports whether a is less evictable than b: a sits earlier (toward
// the prefix / harder-to-evict side) in the ordering.
func (p Policy) less(arena *arena, a, b int32) bool {
	ka, kb := p.rankKey(arena.get(a)), p.rankKey(arena.get(b))
	if ka.tag != kb.tag {
		return ka.tag > kb.tag
	}
	if ka.primary != kb.primary {
		return ka.primary > kb.primary
	}
	if ka.secondary != kb.secondary {
		return ka.secondary > kb.secondary
	}
	return a < b
}

// onInsert initializes e's policy-specific fields for a brand new key,
// first seen at logical time t (the trace's monotonic access counter).
func (p Policy) onInsert(e *entry, t uint64) {
	e.insSeq = t
	e.lastAccess = t
	switch p.Kind {
	case LFU:
		e.freq = 1
	case LRFU:
		e.crf = 1
	case TwoQ:
		e.twoQTag = tagA1In
		e.twoQOrder = t
	}
}

// onAccess updates e's policy-specific fields for a hit on an already
// resident key, at logical time t.
func (p Policy) onAccess(e *entry, t uint64) {
	switch p.Kind {
	case LRU:
		e.lastAccess = t
	case FIFO:
		// insSeq never changes; FIFO order is insertion order only.
	case LFU:
		e.freq++
		e.lastAccess = t
	case LRFU:
		dt := float64(t - e.lastAccess)
		e.crf = 1 + e.crf*math.Exp2(-p.Lambda*dt)
		e.lastAccess = t
	case TwoQ:
		switch e.twoQTag {
		case tagA1In:
			// 2Q variant: a hit while still probationary does not
			// promote; it leaves the key in A1in.
		case tagAm:
			e.twoQOrder = t
		case tagA1Out:
			e.twoQTag = tagAm
			e.twoQOrder = t
		}
	}
}
