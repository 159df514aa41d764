package trace

import (
	"bytes"
	"testing"
)

func TestReaderNext(t *testing.T) {
	var buf bytes.Buffer
	want := []Access{
		{Timestamp: 1, Op: Get, Key: 10, Size: 100},
		{Timestamp: 2, Op: Set, Key: 11, Size: 200},
		{Timestamp: 3, Op: Get, Key: 10, Size: 100},
	}
	for _, a := range want {
		buf.Write(Encode(a))
	}

	r := NewReader(&buf)
	var got []Access
	for {
		a, ok, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, a)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReaderTruncatedStream(t *testing.T) {
	buf := bytes.NewBuffer(Encode(Access{Op: Get})[:RecordSize-1])
	r := NewReader(buf)
	if _, _, err := r.Next(); err == nil {
		t.Fatal("expected an error reading a truncated record")
	}
}
