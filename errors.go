package kosmo

import "github.com/pkg/errors"

// The three sentinel error kinds of this package. Callers use errors.Is
// against these sentinels; wrapped errors carry the offending input in their
// message. I/O failures are wrapped at their call sites without a sentinel,
// and a malformed trace file is reported with trace.ErrMalformedRecord.
var (
	// ErrInputMalformed covers input whose contents do not parse: an
	// accurate-reference CSV line with an unreadable size or ratio.
	ErrInputMalformed = errors.New("kosmo: input malformed")

	// ErrArgumentInvalid covers an argument that cannot be satisfied: an
	// unknown or unparsable policy tag, or curves of different lengths
	// passed to MAE.
	ErrArgumentInvalid = errors.New("kosmo: argument invalid")

	// ErrNumericDegenerate covers a computed quantity that makes the
	// rest of the pipeline meaningless, such as an empty curve passed to
	// MAE.
	ErrNumericDegenerate = errors.New("kosmo: numeric degenerate")
)
