package raylens

import "errors"

var (
	// ErrMalformedSequence: the surface list violates a structural
	// invariant (too few surfaces, non-contiguous indices, more than
	// one stop, bad field/wavelength sets).
	ErrMalformedSequence = errors.New("malformed surface sequence")

	// ErrInvalidFieldOrWavelength: the requested field or wavelength is
	// not registered with the lens.
	ErrInvalidFieldOrWavelength = errors.New("field or wavelength not registered")

	// ErrDegenerateSystem: total paraxial power is zero, so EFL and the
	// quantities derived from it are undefined.
	ErrDegenerateSystem = errors.New("degenerate system: zero paraxial power")

	// ErrOptimizerInput: bad variable bounds or empty variable/operand
	// lists, reported before any evaluation starts.
	ErrOptimizerInput = errors.New("invalid optimizer input")

	// ErrUnknownMaterial: a material name not present in the catalog.
	ErrUnknownMaterial = errors.New("unknown material")
)
