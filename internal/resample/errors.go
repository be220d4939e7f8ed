package resample

import "errors"

// Validation errors. Interpolate wraps one of these with detail; use
// errors.Is to classify.
var (
	ErrInvalidDimensions = errors.New("resample: invalid dimensions")
	ErrInvalidEncoding   = errors.New("resample: invalid pixel encoding")
	ErrInvalidLUT        = errors.New("resample: invalid lut")
	ErrNilBuffer         = errors.New("resample: missing buffer")
	ErrShortBuffer       = errors.New("resample: buffer too short")
)
