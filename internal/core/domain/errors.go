package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinate is matched by every *InvalidCoordinateError.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrTooFewPoints      = errors.New("too few points")
	ErrEmptySequence     = errors.New("empty point sequence")
	ErrInvalidLocation   = errors.New("malformed location")
	ErrOutOfRange        = errors.New("value out of range")
	ErrInvalidColor      = errors.New("invalid color")

	ErrNotFound = errors.New("polyline not found")
	ErrConflict = errors.New("polyline was modified concurrently")
)

// InvalidCoordinateError identifies the first out-of-range pair of an assignment.
type InvalidCoordinateError struct {
	Index int
	Point Coordinate
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("point %d: %v is not a valid latitude, longitude pair", e.Index, e.Point)
}

func (e *InvalidCoordinateError) Is(target error) bool {
	return target == ErrInvalidCoordinate
}

// RangeError reports a style attribute outside its declared range.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// IsValidation reports whether err was caused by rejected input rather than
// by storage or transport.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidCoordinate, ErrTooFewPoints, ErrEmptySequence,
		ErrInvalidLocation, ErrOutOfRange, ErrInvalidColor,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
