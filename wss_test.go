package kosmo

import (
	"bytes"
	"testing"

	"github.com/kosmomrc/kosmo/trace"
)

func TestWSSCountsDistinctKeysOnce(t *testing.T) {
	accesses := []trace.Access{
		{Op: trace.Get, Key: 1, Size: 100},
		{Op: trace.Get, Key: 2, Size: 200},
		{Op: trace.Get, Key: 1, Size: 999}, // re-access; should not recount
		{Op: trace.Set, Key: 3, Size: 500}, // SET never contributes
	}
	if got := WSS(accesses); got != 300 {
		t.Fatalf("WSS = %d, want 300", got)
	}
}

func TestWSSStreamMatchesWSS(t *testing.T) {
	accesses := []trace.Access{
		{Op: trace.Get, Key: 1, Size: 100},
		{Op: trace.Get, Key: 2, Size: 200},
		{Op: trace.Get, Key: 1, Size: 100},
	}

	batch := WSS(accesses)

	var buf bytes.Buffer
	for _, a := range accesses {
		buf.Write(trace.Encode(a))
	}
	r := trace.NewReader(&buf)
	streamed, err := WSSStream(r)
	if err != nil {
		t.Fatalf("WSSStream: %v", err)
	}
	if streamed != batch {
		t.Fatalf("WSSStream = %d, WSS = %d, want equal", streamed, batch)
	}
}
