package analysis

import (
	"fmt"

	"github.com/san-kum/synodic/internal/dynamo"
	"github.com/san-kum/synodic/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// LineFit is a least-squares line value = Slope*time + Intercept.
type LineFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

func (f LineFit) At(t float64) float64 { return f.Slope*t + f.Intercept }

// TimeAxis returns n sample times in years for a step of dt seconds.
func TimeAxis(n int, dt float64) []float64 {
	years := make([]float64, n)
	for i := range years {
		years[i] = float64(i) * dt / physics.JulianYear
	}
	return years
}

// Deviation returns, per step, the distance between body's position in the
// coupled run and the position of the single body in the uncoupled run.
func Deviation(coupled *dynamo.Trajectory, body int, single *dynamo.Trajectory) ([]float64, error) {
	if coupled.Len() != single.Len() {
		return nil, fmt.Errorf("%w: coupled run has %d steps, single run %d", ErrLengthMismatch, coupled.Len(), single.Len())
	}
	if n := coupled.States[0].Bodies(); body < 0 || body >= n {
		return nil, fmt.Errorf("%w: body %d not in a %d-body run", dynamo.ErrDimensionMismatch, body, n)
	}

	dev := make([]float64, coupled.Len())
	for i := range dev {
		dev[i] = r2.Norm(r2.Sub(coupled.States[i].Position(body), single.States[i].Position(0)))
	}
	return dev, nil
}

// FitLine fits a degree-1 least-squares line to series over times.
func FitLine(series, times []float64) LineFit {
	intercept, slope := stat.LinearRegression(times, series, nil, false)
	return LineFit{Slope: slope, Intercept: intercept}
}

// Detrend subtracts the least-squares line from series, isolating the
// bounded oscillating part of the deviation.
func Detrend(series, times []float64) ([]float64, LineFit, error) {
	if len(series) != len(times) {
		return nil, LineFit{}, fmt.Errorf("%w: %d values, %d times", ErrLengthMismatch, len(series), len(times))
	}
	if len(series) < 2 {
		return nil, LineFit{}, fmt.Errorf("%w: need at least 2 samples to fit a line", ErrSeriesTooShort)
	}

	fit := FitLine(series, times)
	adjusted := make([]float64, len(series))
	for i, v := range series {
		adjusted[i] = v - fit.At(times[i])
	}
	return adjusted, fit, nil
}
