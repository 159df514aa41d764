package kosmo

import "testing"

func TestShardsFixedRateAtOneIsNoOp(t *testing.T) {
	s := NewFixedRate(1.0)
	for key := uint64(0); key < 1000; key++ {
		admit, rate, _, evicted := s.Admit(key)
		if !admit {
			t.Fatalf("key %d not admitted at rate 1.0", key)
		}
		if rate != 1.0 {
			t.Fatalf("rate = %v, want 1.0", rate)
		}
		if evicted {
			t.Fatalf("key %d: fixed-rate sampling must never report an eviction", key)
		}
	}
	if d := s.Correction(); d != 0 {
		t.Fatalf("Correction() at rate 1.0 = %v, want 0", d)
	}
}

func TestScaleIdentityAtRateOne(t *testing.T) {
	if got := Scale(42, 1.0); got != 42 {
		t.Fatalf("Scale(42, 1.0) = %d, want 42", got)
	}
}

func TestScaleProjectsUpUnderSampling(t *testing.T) {
	// At a 10% sampling rate, an observed 10-byte quantity represents
	// 100 bytes in the full trace.
	if got := Scale(10, 0.1); got != 100 {
		t.Fatalf("Scale(10, 0.1) = %d, want 100", got)
	}
}

func TestShardsFixedSizeBoundsSample(t *testing.T) {
	s := NewFixedSize(10)
	for key := uint64(0); key < 1000; key++ {
		s.Admit(key)
	}
	if len(s.admitted) > 10 {
		t.Fatalf("sample size = %d, want <= 10", len(s.admitted))
	}
}

func TestShardsFixedSizeReportsEviction(t *testing.T) {
	s := NewFixedSize(10)
	var evictions int
	for key := uint64(0); key < 1000; key++ {
		_, _, _, evicted := s.Admit(key)
		if evicted {
			evictions++
		}
	}
	if evictions == 0 {
		t.Fatal("expected at least one eviction once the sample overflowed sMax")
	}
}

func TestShardsFixedRateCountsSeenAndAdmitted(t *testing.T) {
	s := NewFixedRate(0.5)
	for key := uint64(0); key < 1000; key++ {
		s.Admit(key)
	}
	// At a stationary 50% hash-based rate the law of large numbers keeps
	// observed admissions close to (but not exactly) the expected count,
	// so Correction need not be exactly zero the way it is at rate 1.0.
	// What matters here is that the machinery that could report a
	// nonzero Δ actually runs (totalSeen and admittedCount both advance).
	if s.totalSeen != 1000 {
		t.Fatalf("totalSeen = %d, want 1000", s.totalSeen)
	}
	if s.admittedCount == 0 || s.admittedCount == s.totalSeen {
		t.Fatalf("admittedCount = %d, want strictly between 0 and totalSeen at rate 0.5", s.admittedCount)
	}
}
