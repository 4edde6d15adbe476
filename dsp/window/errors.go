package window

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned by Parse for an unrecognised window name.
var ErrUnknownType = errors.New("unknown window type")

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroCoherentGain = errors.New("window coherent gain is zero")
	errMismatchedLength = errors.New("samples and coefficients must have same length")
)

func unknownTypeError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, name)
}
