package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// SpectralEstimate is the dominant non-zero frequency of a uniformly sampled
// series. Frequency is in cycles per time unit of the sample times.
type SpectralEstimate struct {
	Frequency  float64 `json:"frequency"`
	Period     float64 `json:"period"`
	Bin        int     `json:"bin"`
	Magnitude  float64 `json:"magnitude"`
	Resolution float64 `json:"resolution"`
}

// MagnitudeSpectrum returns |X_k| of the real DFT of series for k = 0..n/2.
func MagnitudeSpectrum(series []float64) []float64 {
	spectrum := fft.FFTReal(series)
	mags := make([]float64, len(series)/2+1)
	for k := range mags {
		mags[k] = cmplx.Abs(spectrum[k])
	}
	return mags
}

// EstimateSpectrum picks the strongest bin of the magnitude spectrum. The
// sampling step is times[1]-times[0]; frequencies are k/(n*step). When the
// strongest bin is the zero-frequency one the estimate is undefined and
// ErrZeroFrequency is returned.
//
// The resolution is one cycle per run length, so the result is a coarse guess
// for long, irregular periods.
func EstimateSpectrum(series, times []float64) (SpectralEstimate, error) {
	step, err := samplingStep(series, times)
	if err != nil {
		return SpectralEstimate{}, err
	}

	mags := MagnitudeSpectrum(series)
	best := 0
	for k := 1; k < len(mags); k++ {
		if mags[k] > mags[best] {
			best = k
		}
	}

	resolution := 1 / (float64(len(series)) * step)
	if best == 0 {
		return SpectralEstimate{Resolution: resolution, Magnitude: mags[0]}, ErrZeroFrequency
	}

	freq := float64(best) * resolution
	return SpectralEstimate{
		Frequency:  freq,
		Period:     1 / freq,
		Bin:        best,
		Magnitude:  mags[best],
		Resolution: resolution,
	}, nil
}

func samplingStep(series, times []float64) (float64, error) {
	if len(series) != len(times) {
		return 0, fmt.Errorf("%w: %d values, %d times", ErrLengthMismatch, len(series), len(times))
	}
	if len(series) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 samples", ErrSeriesTooShort)
	}
	step := times[1] - times[0]
	if step <= 0 {
		return 0, fmt.Errorf("%w: step %g", ErrBadSampling, step)
	}
	return step, nil
}
