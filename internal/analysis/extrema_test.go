package analysis_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/synodic/internal/analysis"
)

func indices(set []analysis.Extremum) []int {
	out := make([]int, len(set))
	for i, e := range set {
		out[i] = e.Index
	}
	return out
}

var _ = Describe("Extrema", func() {
	var series, times []float64

	BeforeEach(func() {
		series = []float64{0, 1, 0, 2, 2, 2, 0, 3, 0}
		times = []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	})

	It("finds strict maxima and the middle of a plateau", func() {
		peaks := analysis.FindPeaks(series, times, analysis.ExtremaOptions{})
		Expect(indices(peaks)).To(Equal([]int{1, 4, 7}))
		Expect(peaks[1].Value).To(Equal(2.0))
		Expect(peaks[2].Time).To(Equal(7.0))
	})

	It("never reports endpoints", func() {
		peaks := analysis.FindPeaks([]float64{5, 1, 5}, []float64{0, 1, 2}, analysis.ExtremaOptions{})
		Expect(peaks).To(BeEmpty())
	})

	It("filters by height", func() {
		peaks := analysis.FindPeaks(series, times, analysis.ExtremaOptions{MinHeight: 1.5, HasHeight: true})
		Expect(indices(peaks)).To(Equal([]int{4, 7}))
	})

	It("keeps the tallest peaks under a distance constraint", func() {
		peaks := analysis.FindPeaks(series, times, analysis.ExtremaOptions{Distance: 4})
		Expect(indices(peaks)).To(Equal([]int{1, 7}))
	})

	It("finds valleys with their original values", func() {
		valleys := analysis.FindValleys(series, times, analysis.ExtremaOptions{})
		Expect(indices(valleys)).To(Equal([]int{2, 6}))
		Expect(valleys[0].Value).To(Equal(0.0))
	})

	It("applies valley heights to the negated series", func() {
		s := []float64{0, -1, 0, -3, 0}
		valleys := analysis.FindValleys(s, []float64{0, 1, 2, 3, 4}, analysis.ExtremaOptions{MinHeight: 2, HasHeight: true})
		Expect(indices(valleys)).To(Equal([]int{3}))
	})

	It("annotates angles by index", func() {
		peaks := analysis.FindPeaks(series, times, analysis.ExtremaOptions{})
		angles := []float64{0, 10, 20, 30, 40, 50, 60, 70, 80}

		annotated := analysis.AnnotateAngles(peaks, angles)
		Expect(annotated[0].Angle).To(Equal(10.0))
		Expect(annotated[2].Angle).To(Equal(70.0))
		Expect(peaks[0].Angle).To(Equal(0.0))
	})
})
