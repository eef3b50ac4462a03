package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Strategy names reported in CycleEstimate.Strategy.
const (
	StrategyPeakMatch        = "peak-match"
	StrategyValleyMatch      = "valley-match"
	StrategySpectralFallback = "spectral-fallback"
)

// Thresholds are the heuristic constants of cycle detection. They describe a
// plausible cycle boundary, nothing stronger.
type Thresholds struct {
	// PeakHeightRatio and ValleyDepthRatio scale the global max and |min|
	// into the minimum height of significant peaks and valleys.
	PeakHeightRatio  float64 `yaml:"peak_height_ratio" json:"peak_height_ratio"`
	ValleyDepthRatio float64 `yaml:"valley_depth_ratio" json:"valley_depth_ratio"`

	// MatchTolerance is the relative amplitude difference under which two
	// extrema are taken as the same phase of the cycle.
	MatchTolerance float64 `yaml:"match_tolerance" json:"match_tolerance"`

	// A peak earlier than EarlySkipPeriodRatio*period that already reaches
	// EarlySkipAmplitudeRatio*max cannot open a full cycle and is skipped.
	EarlySkipPeriodRatio    float64 `yaml:"early_skip_period_ratio" json:"early_skip_period_ratio"`
	EarlySkipAmplitudeRatio float64 `yaml:"early_skip_amplitude_ratio" json:"early_skip_amplitude_ratio"`

	// PeakAnchorRatio, when positive, requires the opening peak of a match to
	// reach PeakAnchorRatio*max.
	PeakAnchorRatio float64 `yaml:"peak_anchor_ratio" json:"peak_anchor_ratio"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PeakHeightRatio:         0.95,
		ValleyDepthRatio:        0.95,
		MatchTolerance:          0.01,
		EarlySkipPeriodRatio:    0.5,
		EarlySkipAmplitudeRatio: 0.99,
	}
}

// CycleEstimate is the resolved cycle length. From and To are nil for the
// spectral fallback.
type CycleEstimate struct {
	CycleTime       float64   `json:"cycle_time"`
	Distance        int       `json:"distance"`
	InitialDistance int       `json:"initial_distance"`
	Strategy        string    `json:"strategy"`
	From            *Extremum `json:"from,omitempty"`
	To              *Extremum `json:"to,omitempty"`
}

// Detection is everything the detector derived from one series.
type Detection struct {
	Spectral        SpectralEstimate `json:"spectral"`
	SpectralDefined bool             `json:"spectral_defined"`

	Peaks   []Extremum `json:"-"`
	Valleys []Extremum `json:"-"`

	SignificantPeaks   []Extremum `json:"significant_peaks"`
	SignificantValleys []Extremum `json:"significant_valleys"`

	Cycle CycleEstimate `json:"cycle"`
}

// Match is a candidate cycle produced by a Strategy.
type Match struct {
	CycleTime float64
	From, To  *Extremum
}

// Strategy proposes a cycle length; ok is false when it has nothing to offer.
type Strategy interface {
	Name() string
	Resolve(in *CycleInput) (m Match, ok bool)
}

// CycleInput is what strategies see.
type CycleInput struct {
	Thresholds      Thresholds
	Peaks           []Extremum
	Valleys         []Extremum
	Max, Min        float64
	Spectral        SpectralEstimate
	SpectralDefined bool
}

type PeakMatch struct{}

func (PeakMatch) Name() string { return StrategyPeakMatch }

func (PeakMatch) Resolve(in *CycleInput) (Match, bool) {
	th := in.Thresholds
	for i, a := range in.Peaks {
		if in.SpectralDefined && a.Time < th.EarlySkipPeriodRatio*in.Spectral.Period &&
			a.Value >= th.EarlySkipAmplitudeRatio*in.Max {
			continue
		}
		if th.PeakAnchorRatio > 0 && a.Value < th.PeakAnchorRatio*in.Max {
			continue
		}
		if j := firstMatch(in.Peaks, i, th.MatchTolerance); j >= 0 {
			return newMatch(in.Peaks[i], in.Peaks[j]), true
		}
	}
	return Match{}, false
}

type ValleyMatch struct{}

func (ValleyMatch) Name() string { return StrategyValleyMatch }

func (ValleyMatch) Resolve(in *CycleInput) (Match, bool) {
	for i := range in.Valleys {
		if j := firstMatch(in.Valleys, i, in.Thresholds.MatchTolerance); j >= 0 {
			return newMatch(in.Valleys[i], in.Valleys[j]), true
		}
	}
	return Match{}, false
}

type SpectralFallback struct{}

func (SpectralFallback) Name() string { return StrategySpectralFallback }

func (SpectralFallback) Resolve(in *CycleInput) (Match, bool) {
	if !in.SpectralDefined {
		return Match{}, false
	}
	return Match{CycleTime: in.Spectral.Period}, true
}

func DefaultStrategies() []Strategy {
	return []Strategy{PeakMatch{}, ValleyMatch{}, SpectralFallback{}}
}

func firstMatch(set []Extremum, i int, tol float64) int {
	for j := i + 1; j < len(set); j++ {
		a, b := set[i].Value, set[j].Value
		if math.Abs(a-b) < tol*math.Max(math.Abs(a), math.Abs(b)) {
			return j
		}
	}
	return -1
}

func newMatch(from, to Extremum) Match {
	return Match{CycleTime: to.Time - from.Time, From: &from, To: &to}
}

type Detector struct {
	th         Thresholds
	strategies []Strategy
}

// NewDetector builds a detector trying strategies in order, or
// DefaultStrategies when none are given.
func NewDetector(th Thresholds, strategies ...Strategy) *Detector {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Detector{th: th, strategies: strategies}
}

// Detect resolves the cycle length of a detrended series. When every
// strategy fails, which only happens when the spectral estimate is
// undefined, the partial Detection is returned with an error wrapping both
// ErrNoCycle and ErrZeroFrequency.
func (d *Detector) Detect(series, times []float64) (*Detection, error) {
	step, err := samplingStep(series, times)
	if err != nil {
		return nil, err
	}

	det := &Detection{}
	spec, err := EstimateSpectrum(series, times)
	switch {
	case err == nil:
		det.SpectralDefined = true
	case errors.Is(err, ErrZeroFrequency):
	default:
		return nil, err
	}
	det.Spectral = spec

	guess := 1
	if det.SpectralDefined {
		guess = max(1, spacing(spec.Period, step))
	}

	maxV, minV := floats.Max(series), floats.Min(series)

	det.Peaks, det.Valleys = FindExtrema(series, times, ExtremaOptions{})
	det.SignificantPeaks = FindPeaks(series, times, ExtremaOptions{
		MinHeight: d.th.PeakHeightRatio * maxV,
		HasHeight: true,
		Distance:  guess,
	})
	det.SignificantValleys = FindValleys(series, times, ExtremaOptions{
		MinHeight: math.Abs(d.th.ValleyDepthRatio * minV),
		HasHeight: true,
		Distance:  guess,
	})

	in := &CycleInput{
		Thresholds:      d.th,
		Peaks:           det.SignificantPeaks,
		Valleys:         det.SignificantValleys,
		Max:             maxV,
		Min:             minV,
		Spectral:        spec,
		SpectralDefined: det.SpectralDefined,
	}

	for _, s := range d.strategies {
		m, ok := s.Resolve(in)
		if !ok || !(m.CycleTime > 0) || math.IsInf(m.CycleTime, 0) {
			continue
		}
		det.Cycle = CycleEstimate{
			CycleTime:       m.CycleTime,
			Distance:        spacing(m.CycleTime, step),
			InitialDistance: guess,
			Strategy:        s.Name(),
			From:            m.From,
			To:              m.To,
		}
		return det, nil
	}

	det.Cycle.InitialDistance = guess
	return det, fmt.Errorf("%w: %w", ErrNoCycle, ErrZeroFrequency)
}

// spacing converts a duration into the half-cycle index spacing used to
// separate significant extrema.
func spacing(duration, step float64) int {
	return int(math.Round(duration / (2 * step)))
}
