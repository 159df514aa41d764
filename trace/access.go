// Package trace reads and generates cache access traces for Kosmo.
package trace

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Op identifies the operation carried by an Access record.
type Op uint8

const (
	Get Op = 0
	Set Op = 1
)

func (o Op) String() string {
	switch o {
	case Get:
		return "GET"
	case Set:
		return "SET"
	default:
		return "UNKNOWN"
	}
}

// RecordSize is the fixed on-disk size, in bytes, of one Access record:
// timestamp(8) + op(1) + key(8) + size(4) + ttl(4).
const RecordSize = 25

// Access is one decoded record from a binary trace.
type Access struct {
	Timestamp uint64
	Op        Op
	Key       uint64
	Size      uint32
	TTL       uint32
}

// ErrMalformedRecord is returned when a record's op byte is not GET or SET,
// and by Open when a file's size is not a whole multiple of RecordSize.
var ErrMalformedRecord = errors.New("trace: malformed record")

// Decode reads one Access from a RecordSize-length slice.
func Decode(b []byte) (Access, error) {
	if len(b) != RecordSize {
		return Access{}, errors.Errorf("trace: record must be %d bytes, got %d", RecordSize, len(b))
	}
	op := Op(b[8])
	if op != Get && op != Set {
		return Access{}, errors.Wrapf(ErrMalformedRecord, "op byte %d", b[8])
	}
	return Access{
		Timestamp: binary.LittleEndian.Uint64(b[0:8]),
		Op:        op,
		Key:       binary.LittleEndian.Uint64(b[9:17]),
		Size:      binary.LittleEndian.Uint32(b[17:21]),
		TTL:       binary.LittleEndian.Uint32(b[21:25]),
	}, nil
}

// Encode writes a into a freshly allocated RecordSize-length slice.
func Encode(a Access) []byte {
	b := make([]byte, RecordSize)
	binary.LittleEndian.PutUint64(b[0:8], a.Timestamp)
	b[8] = byte(a.Op)
	binary.LittleEndian.PutUint64(b[9:17], a.Key)
	binary.LittleEndian.PutUint32(b[17:21], a.Size)
	binary.LittleEndian.PutUint32(b[21:25], a.TTL)
	return b
}
