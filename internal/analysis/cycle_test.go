package analysis_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/synodic/internal/analysis"
)

// wave returns ten periods of a 100-sample sine. Positive lobes of cycle k
// are scaled by 1+peakGrowth*k and negative lobes by 1+valleyGrowth*k.
func wave(peakGrowth, valleyGrowth float64) (series, times []float64) {
	return sampled(1000, func(i int) float64 {
		k := float64(i / 100)
		v := math.Sin(2 * math.Pi * float64(i) / 100)
		if v > 0 {
			return v * (1 + peakGrowth*k)
		}
		return v * (1 + valleyGrowth*k)
	})
}

var _ = Describe("Detector", func() {
	var det *analysis.Detector

	BeforeEach(func() {
		det = analysis.NewDetector(analysis.DefaultThresholds())
	})

	It("matches peaks of equal height", func() {
		series, times := wave(0, 0)

		d, err := det.Detect(series, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.SpectralDefined).To(BeTrue())
		Expect(d.Cycle.Strategy).To(Equal(analysis.StrategyPeakMatch))
		Expect(d.Cycle.CycleTime).To(BeNumerically("~", 100, 1e-9))
		Expect(d.Cycle.InitialDistance).To(Equal(50))
		Expect(d.Cycle.Distance).To(Equal(50))

		// The first peak lands before half a period at full height, so it
		// cannot open the cycle.
		Expect(d.Cycle.From.Index).To(Equal(125))
		Expect(d.Cycle.To.Index).To(Equal(225))
	})

	It("falls back to valleys when peaks grow", func() {
		series, times := wave(0.05, 0)

		d, err := det.Detect(series, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Cycle.Strategy).To(Equal(analysis.StrategyValleyMatch))
		Expect(d.Cycle.CycleTime).To(BeNumerically("~", 100, 1e-9))
		Expect(d.Cycle.From.Value).To(BeNumerically("<", 0))
	})

	It("falls back to the spectral period when nothing matches", func() {
		series, times := wave(0.05, 0.05)

		d, err := det.Detect(series, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Cycle.Strategy).To(Equal(analysis.StrategySpectralFallback))
		Expect(d.Cycle.CycleTime).To(Equal(d.Spectral.Period))
		Expect(d.Cycle.From).To(BeNil())
		Expect(d.Cycle.To).To(BeNil())
	})

	It("reports no cycle for a flat series", func() {
		series, times := sampled(200, func(int) float64 { return 1 })

		d, err := det.Detect(series, times)
		Expect(err).To(MatchError(analysis.ErrNoCycle))
		Expect(err).To(MatchError(analysis.ErrZeroFrequency))
		Expect(d).NotTo(BeNil())
		Expect(d.SpectralDefined).To(BeFalse())
		Expect(d.Cycle.InitialDistance).To(Equal(1))
	})

	It("honours a custom strategy order", func() {
		series, times := wave(0, 0)

		d, err := analysis.NewDetector(analysis.DefaultThresholds(), analysis.SpectralFallback{}).Detect(series, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Cycle.Strategy).To(Equal(analysis.StrategySpectralFallback))
		Expect(d.Cycle.CycleTime).To(BeNumerically("~", 100, 1e-9))
	})

	It("requires anchor peaks near the maximum when asked", func() {
		series, times := wave(0, 0)
		th := analysis.DefaultThresholds()
		th.PeakAnchorRatio = 1.01

		d, err := analysis.NewDetector(th).Detect(series, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Cycle.Strategy).To(Equal(analysis.StrategyValleyMatch))
	})
})
