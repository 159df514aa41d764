package kosmo

import (
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/kosmomrc/kosmo/trace"
)

// Simulator is the shared contract Kosmo and MiniSim both satisfy: feed it
// admitted accesses, read a Grid back out. Process never samples on its
// own; the run driver below owns the single Shards decision per access and
// is responsible for telling every active Simulator the same thing, so
// that running Kosmo and MiniSim side by side (spec.md §5) sees identical
// admitted sequences and identical sampling decisions.
type Simulator interface {
	Process(key uint64, size uint32, rate float64)
	Resident(key uint64) bool
	Evict(key uint64)
	Grid() *Grid
}

// RunMode selects between the two run modes of §5.
type RunMode uint8

const (
	// Throughput loads the whole trace before simulating and reports no
	// progress, for measuring peak accesses/sec undisturbed by I/O.
	Throughput RunMode = iota
	// Memory streams the trace with progress logging and reports the OS
	// RSS high-water mark at the end.
	Memory
)

// admitOne applies shards (if non-nil) to one access key, driving every
// active simulator identically: it decides admission and sampling rate
// exactly once, propagates any sample eviction to every sim, and reports
// whether the access should be processed at all (admitted, or already
// resident in at least one sim and therefore still being tracked down to
// its eventual eviction from the sample).
func admitOne(shards *Shards, sims []Simulator, key uint64) (proceed bool, rate float64) {
	if shards == nil {
		return true, 1.0
	}

	admit, r, evictedKey, evicted := shards.Admit(key)
	if evicted {
		for _, s := range sims {
			s.Evict(evictedKey)
		}
	}
	if admit {
		return true, r
	}
	for _, s := range sims {
		if s.Resident(key) {
			return true, r
		}
	}
	return false, r
}

// RunThroughput loads path into memory once, then replays every GET
// through every sim in sims in large batches with no progress reporting.
// shards may be nil to disable sampling. It returns the number of GET
// accesses processed.
func RunThroughput(path string, sims []Simulator, shards *Shards, log *logrus.Logger) (uint64, error) {
	accesses, err := trace.ReadAll(path)
	if err != nil {
		return 0, err
	}
	log.WithField("records", len(accesses)).Info("loaded trace")

	var processed uint64
	b := NewBatcher(DefaultBatchSize, func(batch []trace.Access) {
		for _, a := range batch {
			if a.Op != trace.Get {
				continue
			}
			proceed, rate := admitOne(shards, sims, a.Key)
			if !proceed {
				continue
			}
			for _, s := range sims {
				s.Process(a.Key, a.Size, rate)
			}
			processed++
		}
	})
	for _, a := range accesses {
		b.Add(a)
	}
	b.Close()
	return processed, nil
}

// RunMemory streams path through every sim in sims record by record,
// logging progress every progressEvery accesses, and returns the number of
// GET accesses processed along with the process's RSS high-water mark in
// bytes. shards may be nil to disable sampling.
func RunMemory(path string, sims []Simulator, shards *Shards, progressEvery uint64, log *logrus.Logger) (processed uint64, rss uint64, err error) {
	r, closer, err := trace.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer closer.Close()

	for {
		a, ok, err := r.Next()
		if err != nil {
			return processed, 0, err
		}
		if !ok {
			break
		}
		if a.Op != trace.Get {
			continue
		}
		proceed, rate := admitOne(shards, sims, a.Key)
		if !proceed {
			continue
		}
		for _, s := range sims {
			s.Process(a.Key, a.Size, rate)
		}
		processed++
		if progressEvery > 0 && processed%progressEvery == 0 {
			log.WithField("processed", processed).Info("progress")
		}
	}

	rss, err = RSSHighWaterMark()
	if err != nil {
		return processed, 0, err
	}
	log.WithField("rss", humanize.Bytes(rss)).Info("peak memory")
	return processed, rss, nil
}
