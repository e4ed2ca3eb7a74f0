package window

import (
	"errors"
	"fmt"
)

var (
	errEmptyCoeffs = errors.New("window coefficients must not be empty")
	errInvalidHop  = errors.New("overlap hop must be in [1, len(coeffs)]")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}
