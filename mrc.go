package kosmo

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Point is one (cache size, miss ratio) sample of a miss ratio curve.
type Point struct {
	Size      uint64
	MissRatio float64
}

// Curve extracts the finished (size, miss ratio) curve from a Grid.
func Curve(g *Grid) []Point {
	out := make([]Point, len(g.Sizes))
	for i, size := range g.Sizes {
		out[i] = Point{Size: size, MissRatio: g.MissRatio(i)}
	}
	return out
}

// WriteCSV writes curve as size,missratio lines with no header, matching
// the accurate reference format.
func WriteCSV(w io.Writer, curve []Point) error {
	cw := csv.NewWriter(w)
	for _, p := range curve {
		if err := cw.Write([]string{
			strconv.FormatUint(p.Size, 10),
			strconv.FormatFloat(p.MissRatio, 'f', -1, 64),
		}); err != nil {
			return errors.Wrap(err, "mrc: write csv")
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAccurateCSV reads a reference curve: up to 100 lines, no header,
// size,missratio per line.
func ReadAccurateCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "mrc: read accurate csv")
	}
	out := make([]Point, len(records))
	for i, rec := range records {
		size, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInputMalformed, "accurate csv line %d: size %q", i+1, rec[0])
		}
		ratio, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInputMalformed, "accurate csv line %d: ratio %q", i+1, rec[1])
		}
		out[i] = Point{Size: size, MissRatio: ratio}
	}
	return out, nil
}

// MAE returns the mean absolute error between a computed curve and a
// reference curve of equal length, matched index-for-index.
func MAE(curve, reference []Point) (float64, error) {
	if len(curve) != len(reference) {
		return 0, errors.Wrapf(ErrArgumentInvalid, "mae: curve has %d points, reference has %d", len(curve), len(reference))
	}
	if len(curve) == 0 {
		return 0, errors.Wrap(ErrNumericDegenerate, "mae: empty curve")
	}
	var sum float64
	for i := range curve {
		d := curve[i].MissRatio - reference[i].MissRatio
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum / float64(len(curve)), nil
}
