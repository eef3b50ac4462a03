package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

// Downsample reduces values to at most n points. Each point is the sample
// with the largest magnitude in its bucket so peaks survive.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}

	out := make([]float64, n)
	bucket := float64(len(values)) / float64(n)
	for i := range out {
		lo := int(float64(i) * bucket)
		hi := min(int(float64(i+1)*bucket), len(values))
		best := values[lo]
		for _, v := range values[lo:hi] {
			if math.Abs(v) > math.Abs(best) {
				best = v
			}
		}
		out[i] = best
	}
	return out
}

// SeriesGraph plots values as an asciigraph line chart of the given size.
func SeriesGraph(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(Downsample(values, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// ScaledGraph is SeriesGraph with values divided by unit, for plotting
// meters as e.g. thousands of kilometers.
func ScaledGraph(values []float64, unit float64, caption string, width, height int) string {
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / unit
	}
	return SeriesGraph(scaled, caption, width, height)
}
