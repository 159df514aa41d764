package trace

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Reader pulls Access records one at a time from an underlying byte stream.
// It is the generalization of the generator-closure idiom used elsewhere in
// this codebase for trace sources: construct once, call Next until it
// reports done.
type Reader struct {
	r   io.Reader
	buf [RecordSize]byte
	n   uint64
}

// NewReader wraps r, which must yield a stream of back-to-back RecordSize
// records.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 1<<20)}
}

// Open opens path and validates that its size is a whole multiple of
// RecordSize before returning a Reader over it.
func Open(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "trace: open %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "trace: stat %s", path)
	}
	if info.Size()%RecordSize != 0 {
		f.Close()
		return nil, nil, errors.Wrapf(ErrMalformedRecord, "%s: size %d not a multiple of %d", path, info.Size(), RecordSize)
	}
	return NewReader(f), f, nil
}

// Next returns the next Access, or ok=false once the stream is exhausted.
func (r *Reader) Next() (a Access, ok bool, err error) {
	_, err = io.ReadFull(r.r, r.buf[:])
	if err == io.EOF {
		return Access{}, false, nil
	}
	if err != nil {
		return Access{}, false, errors.Wrapf(err, "trace: read record %d", r.n)
	}
	a, err = Decode(r.buf[:])
	if err != nil {
		return Access{}, false, errors.Wrapf(err, "trace: record %d", r.n)
	}
	r.n++
	return a, true, nil
}

// ReadAll loads every Access into memory, for the throughput run mode where
// the whole trace is resident before the timed simulation begins.
func ReadAll(path string) ([]Access, error) {
	r, closer, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var out []Access
	for {
		a, ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, a)
	}
}
