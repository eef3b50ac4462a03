package analysis_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/synodic/internal/analysis"
)

// sampled returns n samples of f at unit spacing.
func sampled(n int, f func(i int) float64) (series, times []float64) {
	series = make([]float64, n)
	times = make([]float64, n)
	for i := range series {
		series[i] = f(i)
		times[i] = float64(i)
	}
	return series, times
}

var _ = Describe("EstimateSpectrum", func() {
	It("finds the period of a sine", func() {
		series, times := sampled(1000, func(i int) float64 {
			return math.Sin(2 * math.Pi * float64(i) / 100)
		})

		est, err := analysis.EstimateSpectrum(series, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(est.Bin).To(Equal(10))
		Expect(est.Period).To(BeNumerically("~", 100, 1e-9))
		Expect(est.Resolution).To(BeNumerically("~", 1e-3, 1e-15))
	})

	It("scales with the sampling step", func() {
		series, times := sampled(1000, func(i int) float64 {
			return math.Cos(2 * math.Pi * float64(i) / 50)
		})
		for i := range times {
			times[i] *= 0.5
		}

		est, err := analysis.EstimateSpectrum(series, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(est.Period).To(BeNumerically("~", 25, 1e-9))
	})

	DescribeTable("undefined when the zero bin dominates",
		func(value float64) {
			series, times := sampled(64, func(int) float64 { return value })

			_, err := analysis.EstimateSpectrum(series, times)
			Expect(err).To(MatchError(analysis.ErrZeroFrequency))
		},
		Entry("constant", 3.0),
		Entry("all zero", 0.0),
	)

	It("validates sampling", func() {
		_, err := analysis.EstimateSpectrum([]float64{1}, []float64{0})
		Expect(err).To(MatchError(analysis.ErrSeriesTooShort))

		_, err = analysis.EstimateSpectrum([]float64{1, 2}, []float64{0, 1, 2})
		Expect(err).To(MatchError(analysis.ErrLengthMismatch))

		_, err = analysis.EstimateSpectrum([]float64{1, 2}, []float64{1, 1})
		Expect(err).To(MatchError(analysis.ErrBadSampling))
	})
})
