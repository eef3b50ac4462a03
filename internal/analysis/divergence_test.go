package analysis_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/dynamo"
	"github.com/san-kum/synodic/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func trajectoryOf(positions ...[]r2.Vec) *dynamo.Trajectory {
	traj := &dynamo.Trajectory{}
	for i, pos := range positions {
		vel := make([]r2.Vec, len(pos))
		traj.States = append(traj.States, dynamo.NewState(pos, vel))
		traj.Times = append(traj.Times, float64(i))
	}
	return traj
}

var _ = Describe("Divergence", func() {
	Describe("TimeAxis", func() {
		It("counts Julian years", func() {
			Expect(analysis.TimeAxis(3, physics.JulianYear)).To(Equal([]float64{0, 1, 2}))
		})
	})

	Describe("Deviation", func() {
		It("measures the distance to the single-body run", func() {
			coupled := trajectoryOf(
				[]r2.Vec{{X: 1, Y: 0}, {X: 5, Y: 5}},
				[]r2.Vec{{X: 4, Y: 4}, {X: 5, Y: 5}},
			)
			single := trajectoryOf(
				[]r2.Vec{{X: 1, Y: 0}},
				[]r2.Vec{{X: 1, Y: 0}},
			)

			dev, err := analysis.Deviation(coupled, 0, single)
			Expect(err).NotTo(HaveOccurred())
			Expect(dev).To(Equal([]float64{0, 5}))
		})

		It("rejects runs of different length", func() {
			coupled := trajectoryOf([]r2.Vec{{}, {}}, []r2.Vec{{}, {}})
			single := trajectoryOf([]r2.Vec{{}})

			_, err := analysis.Deviation(coupled, 0, single)
			Expect(err).To(MatchError(analysis.ErrLengthMismatch))
		})

		It("rejects an unknown body", func() {
			coupled := trajectoryOf([]r2.Vec{{}, {}})
			single := trajectoryOf([]r2.Vec{{}})

			_, err := analysis.Deviation(coupled, 2, single)
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})
	})

	Describe("Detrend", func() {
		var times []float64

		BeforeEach(func() {
			times = analysis.TimeAxis(500, physics.SecondsPerDay)
		})

		It("removes a pure line exactly", func() {
			series := make([]float64, len(times))
			for i, t := range times {
				series[i] = 3e9*t + 2e7
			}

			adjusted, fit, err := analysis.Detrend(series, times)
			Expect(err).NotTo(HaveOccurred())
			Expect(fit.Slope).To(BeNumerically("~", 3e9, 1))
			Expect(fit.Intercept).To(BeNumerically("~", 2e7, 1))
			for _, v := range adjusted {
				Expect(v).To(BeNumerically("~", 0, 1))
			}
		})

		It("is idempotent", func() {
			series := make([]float64, len(times))
			for i, t := range times {
				series[i] = 1e6*t + 1e5*math.Sin(2*math.Pi*t/0.3)
			}

			once, _, err := analysis.Detrend(series, times)
			Expect(err).NotTo(HaveOccurred())
			twice, fit, err := analysis.Detrend(once, times)
			Expect(err).NotTo(HaveOccurred())

			Expect(fit.Slope).To(BeNumerically("~", 0, 1e-4))
			Expect(fit.Intercept).To(BeNumerically("~", 0, 1e-4))
			for i := range once {
				Expect(twice[i]).To(BeNumerically("~", once[i], 1e-4))
			}
		})

		It("rejects mismatched and short input", func() {
			_, _, err := analysis.Detrend([]float64{1, 2}, []float64{0})
			Expect(err).To(MatchError(analysis.ErrLengthMismatch))

			_, _, err = analysis.Detrend([]float64{1}, []float64{0})
			Expect(err).To(MatchError(analysis.ErrSeriesTooShort))
		})
	})
})
