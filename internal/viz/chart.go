package viz

import (
	"fmt"
	"image/color"

	"github.com/san-kum/synodic/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	lineColor   = color.RGBA{R: 0, G: 119, B: 190, A: 255}
	peakColor   = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	valleyColor = color.RGBA{R: 40, G: 160, B: 60, A: 255}
	cycleColor  = color.RGBA{R: 255, G: 170, B: 0, A: 255}
)

const (
	chartWidth  = 14 * vg.Inch
	chartHeight = 6 * vg.Inch

	// maxLinePoints caps the points handed to the line plotter.
	maxLinePoints = 4000
)

func xys(times, values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i := range values {
		pts[i] = plotter.XY{X: times[i], Y: values[i]}
	}
	return pts
}

// thin keeps every k-th sample so at most n remain.
func thin(times, values []float64, n int) ([]float64, []float64) {
	if len(values) <= n {
		return times, values
	}
	k := (len(values) + n - 1) / n
	var ts, vs []float64
	for i := 0; i < len(values); i += k {
		ts = append(ts, times[i])
		vs = append(vs, values[i])
	}
	return ts, vs
}

func extremaXYs(set []analysis.Extremum, y func(analysis.Extremum) float64) plotter.XYs {
	pts := make(plotter.XYs, len(set))
	for i, e := range set {
		pts[i] = plotter.XY{X: e.Time, Y: y(e)}
	}
	return pts
}

func addScatter(p *plot.Plot, label string, pts plotter.XYs, c color.Color, shape draw.GlyphDrawer) error {
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Shape = shape
	p.Add(sc)
	p.Legend.Add(label, sc)
	return nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

// SavePerturbationChart writes a PNG of the detrended deviation with the
// significant extrema marked and the resolved cycle bracketed.
func SavePerturbationChart(path, body string, times, adjusted []float64, d *analysis.Detection) error {
	p := newPlot(fmt.Sprintf("%s perturbation (detrended)", body), "Time (years)", "Deviation (m)")

	ts, vs := thin(times, adjusted, maxLinePoints)
	line, err := plotter.NewLine(xys(ts, vs))
	if err != nil {
		return err
	}
	line.Color = lineColor
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("adjusted", line)

	if d != nil {
		value := func(e analysis.Extremum) float64 { return e.Value }
		if err := addScatter(p, "peaks", extremaXYs(d.SignificantPeaks, value), peakColor, draw.TriangleGlyph{}); err != nil {
			return err
		}
		if err := addScatter(p, "valleys", extremaXYs(d.SignificantValleys, value), valleyColor, draw.CircleGlyph{}); err != nil {
			return err
		}
		if c := d.Cycle; c.From != nil && c.To != nil {
			bracket, err := plotter.NewLine(plotter.XYs{{X: c.From.Time, Y: c.From.Value}, {X: c.To.Time, Y: c.To.Value}})
			if err != nil {
				return err
			}
			bracket.Color = cycleColor
			bracket.Width = vg.Points(2)
			bracket.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
			p.Add(bracket)
			p.Legend.Add(fmt.Sprintf("cycle %.2f y (%s)", c.CycleTime, c.Strategy), bracket)
		}
	}

	return p.Save(chartWidth, chartHeight, path)
}

// SaveAngleChart writes a PNG of the tracked angle over time with the angle
// at each significant extremum marked.
func SaveAngleChart(path string, times, angles []float64, d *analysis.Detection) error {
	p := newPlot("Angle to partner", "Time (years)", "Angle (degrees)")
	p.Y.Min, p.Y.Max = -180, 180

	ts, vs := thin(times, angles, maxLinePoints)
	sc, err := plotter.NewScatter(xys(ts, vs))
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = lineColor
	sc.GlyphStyle.Radius = vg.Points(0.5)
	p.Add(sc)

	if d != nil {
		angle := func(e analysis.Extremum) float64 { return e.Angle }
		if err := addScatter(p, "at peaks", extremaXYs(d.SignificantPeaks, angle), peakColor, draw.TriangleGlyph{}); err != nil {
			return err
		}
		if err := addScatter(p, "at valleys", extremaXYs(d.SignificantValleys, angle), valleyColor, draw.CircleGlyph{}); err != nil {
			return err
		}
	}

	return p.Save(chartWidth, chartHeight, path)
}
