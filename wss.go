package kosmo

import "github.com/kosmomrc/kosmo/trace"

// WSS computes the working set size of a trace: the sum of sizes of
// distinct keys, counted at their first GET. SET records never contribute.
func WSS(accesses []trace.Access) uint64 {
	seen := make(map[uint64]struct{})
	var total uint64
	for _, a := range accesses {
		if a.Op != trace.Get {
			continue
		}
		if _, ok := seen[a.Key]; ok {
			continue
		}
		seen[a.Key] = struct{}{}
		total += uint64(a.Size)
	}
	return total
}

// WSSStream is the streaming counterpart of WSS, for the memory run mode
// where the whole trace is never held in one slice.
func WSSStream(r *trace.Reader) (uint64, error) {
	seen := make(map[uint64]struct{})
	var total uint64
	for {
		a, ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return total, nil
		}
		if a.Op != trace.Get {
			continue
		}
		if _, dup := seen[a.Key]; dup {
			continue
		}
		seen[a.Key] = struct{}{}
		total += uint64(a.Size)
	}
}
