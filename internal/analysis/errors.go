package analysis

import "errors"

var (
	// ErrSeriesTooShort indicates fewer samples than the operation needs.
	ErrSeriesTooShort = errors.New("analysis: series too short")

	// ErrLengthMismatch indicates series or trajectories of different lengths.
	ErrLengthMismatch = errors.New("analysis: length mismatch")

	// ErrBadSampling indicates sample times that do not increase.
	ErrBadSampling = errors.New("analysis: sample times must increase")

	// ErrZeroFrequency indicates the strongest spectral bin is the
	// zero-frequency (trend) component, so no period can be derived.
	ErrZeroFrequency = errors.New("analysis: dominant spectral component is zero-frequency")

	// ErrNoCycle indicates neither extrema matching nor the spectral fallback
	// produced a usable cycle length.
	ErrNoCycle = errors.New("analysis: no cycle found")
)
