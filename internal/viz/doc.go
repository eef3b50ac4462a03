// Package viz renders stored runs for the terminal and as image files.
//
//   - [SeriesGraph]: asciigraph line chart of a long series, downsampled to fit
//   - [Canvas], [DrawOrbits]: Braille dot canvas for the orbital plane
//   - [Styles]: lipgloss styles for run summaries, built from a [Theme]
//   - [SavePerturbationChart], [SaveAngleChart]: PNG charts via gonum/plot
//   - [OrbitSVG]: orbit paths as a standalone SVG drawing
package viz
