package curve

import "errors"

var (
	ErrInvalidKeys   = errors.New("curve keys must have strictly increasing times")
	ErrUnknownInterp = errors.New("unknown curve interpolation mode")
	ErrValueNotFound = errors.New("no curve parameter found for value")
	ErrCurveNotFound = errors.New("curve not found")
)
