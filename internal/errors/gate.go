package errors

import "errors"

// ErrRegressionDetected is returned by compare --fail-on-regression when a
// benchmark crossed the error threshold.
var ErrRegressionDetected = errors.New("performance regression detected")

// IsInputError reports whether err is, or wraps, an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
