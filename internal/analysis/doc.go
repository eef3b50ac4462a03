// Package analysis extracts the synodic perturbation signal from a pair of
// trajectory runs.
//
// The pipeline, in order:
//
//   - [Deviation]: per-step distance between a body's coupled and uncoupled positions
//   - [Detrend]: removes the least-squares line, leaving the oscillating residual
//   - [EstimateSpectrum]: dominant period of the residual from its real DFT
//   - [FindExtrema]: local peaks and valleys, optionally height and spacing filtered
//   - [Detector]: resolves the actual cycle length from matched extrema
//   - [Angles]: signed angle between one body's velocity and the other body
//   - [Separation], [Conjunctions]: heliocentric angle and the times it crosses zero
//
// # Cycle Detection
//
// The detector tries its strategies in order and keeps the first positive
// result:
//
//	det := analysis.NewDetector(analysis.DefaultThresholds())
//	d, err := det.Detect(adjusted, years)
//	if errors.Is(err, analysis.ErrNoCycle) {
//	    // the residual has no oscillation to measure
//	}
package analysis
