package analysis

import "sort"

// Extremum is one local peak or valley of a series.
type Extremum struct {
	Index int     `json:"index"`
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
	Angle float64 `json:"angle"`
}

// ExtremaOptions filters local maxima. Zero values disable a filter.
type ExtremaOptions struct {
	// MinHeight drops maxima below this value (applied to the searched
	// series, so to the negated series for valleys).
	MinHeight float64
	HasHeight bool

	// Distance is the minimum index spacing between kept maxima; taller
	// maxima win.
	Distance int
}

// FindPeaks returns local maxima of series filtered by opts.
func FindPeaks(series, times []float64, opts ExtremaOptions) []Extremum {
	idx := filterByDistance(series, filterByHeight(series, localMaxima(series), opts), opts.Distance)
	return toExtrema(series, times, idx)
}

// FindValleys returns local minima of series, found as maxima of -series.
// opts.MinHeight applies to the negated values.
func FindValleys(series, times []float64, opts ExtremaOptions) []Extremum {
	neg := make([]float64, len(series))
	for i, v := range series {
		neg[i] = -v
	}
	idx := filterByDistance(neg, filterByHeight(neg, localMaxima(neg), opts), opts.Distance)
	return toExtrema(series, times, idx)
}

// FindExtrema returns both peaks and valleys with the same options.
func FindExtrema(series, times []float64, opts ExtremaOptions) (peaks, valleys []Extremum) {
	return FindPeaks(series, times, opts), FindValleys(series, times, opts)
}

// AnnotateAngles copies angles[e.Index] into every extremum of set.
func AnnotateAngles(set []Extremum, angles []float64) []Extremum {
	out := make([]Extremum, len(set))
	for i, e := range set {
		e.Angle = angles[e.Index]
		out[i] = e
	}
	return out
}

// localMaxima finds samples strictly greater than both neighbours. A flat
// top reports its middle sample. The first and last samples never qualify.
func localMaxima(x []float64) []int {
	var peaks []int
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < n-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				peaks = append(peaks, (i+ahead-1)/2)
				i = ahead
			}
		}
		i++
	}
	return peaks
}

func filterByHeight(x []float64, peaks []int, opts ExtremaOptions) []int {
	if !opts.HasHeight {
		return peaks
	}
	var kept []int
	for _, p := range peaks {
		if x[p] >= opts.MinHeight {
			kept = append(kept, p)
		}
	}
	return kept
}

// filterByDistance keeps the tallest peaks first and drops any peak closer
// than distance samples to one already kept.
func filterByDistance(x []float64, peaks []int, distance int) []int {
	if distance <= 1 || len(peaks) < 2 {
		return peaks
	}

	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[peaks[order[a]]] < x[peaks[order[b]]]
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}

	for i := len(order) - 1; i >= 0; i-- {
		j := order[i]
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(peaks) && peaks[k]-peaks[j] < distance; k++ {
			keep[k] = false
		}
	}

	kept := make([]int, 0, len(peaks))
	for i, p := range peaks {
		if keep[i] {
			kept = append(kept, p)
		}
	}
	return kept
}

func toExtrema(series, times []float64, idx []int) []Extremum {
	out := make([]Extremum, len(idx))
	for i, p := range idx {
		out[i] = Extremum{Index: p, Time: times[p], Value: series[p]}
	}
	return out
}
