package analysis_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Angles", func() {
	// Body a sits at (1, 0) moving counter-clockwise.
	pairAt := func(b r2.Vec) dynamo.State {
		return dynamo.NewState([]r2.Vec{{X: 1}, b}, []r2.Vec{{Y: 1}, {}})
	}

	It("is signed counter-clockwise from the direction of travel", func() {
		traj := &dynamo.Trajectory{States: []dynamo.State{
			pairAt(r2.Vec{X: 1, Y: 2}),
			pairAt(r2.Vec{X: 0, Y: 1}),
			pairAt(r2.Vec{X: 2, Y: 0}),
			pairAt(r2.Vec{X: 0, Y: -1}),
		}}

		angles, err := analysis.Angles(traj, 0, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(angles[0]).To(BeNumerically("~", 0, 1e-12))
		Expect(angles[1]).To(BeNumerically("~", 45, 1e-12))
		Expect(angles[2]).To(BeNumerically("~", -90, 1e-12))
		Expect(angles[3]).To(BeNumerically("~", 135, 1e-12))
	})

	It("rejects bodies outside the run", func() {
		traj := trajectoryOf([]r2.Vec{{X: 1}, {Y: 1}})

		_, err := analysis.Angles(traj, 0, 2)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))

		_, err = analysis.Angles(&dynamo.Trajectory{}, 0, 1)
		Expect(err).To(MatchError(analysis.ErrSeriesTooShort))
	})
})

var _ = Describe("Separation", func() {
	It("measures the heliocentric angle between bodies", func() {
		traj := trajectoryOf(
			[]r2.Vec{{X: 1, Y: 0}, {X: 0, Y: 2}},
			[]r2.Vec{{X: 1, Y: 0}, {X: 0, Y: -2}},
			[]r2.Vec{{X: 1, Y: 0}, {X: 3, Y: 0}},
		)

		sep, err := analysis.Separation(traj, 0, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(sep[0]).To(BeNumerically("~", 90, 1e-12))
		Expect(sep[1]).To(BeNumerically("~", -90, 1e-12))
		Expect(sep[2]).To(BeNumerically("~", 0, 1e-12))
	})

	It("finds conjunctions but not wraps", func() {
		sep := []float64{-10, 10, 170, -170, -10, 30}
		times := []float64{0, 1, 2, 3, 4, 5}

		events := analysis.Conjunctions(sep, times)
		Expect(events).To(HaveLen(2))
		Expect(events[0]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(events[1]).To(BeNumerically("~", 4.25, 1e-12))
		Expect(analysis.MeanInterval(events)).To(BeNumerically("~", 3.75, 1e-12))

		// An inner body overtaking makes the separation fall through zero.
		events = analysis.Conjunctions([]float64{10, -30}, []float64{0, 1})
		Expect(events).To(HaveLen(1))
		Expect(events[0]).To(BeNumerically("~", 0.25, 1e-12))
	})
})

var _ = Describe("OrbitPortrait", func() {
	It("thins every body's path", func() {
		traj := trajectoryOf(
			[]r2.Vec{{X: 1, Y: 0}, {X: 0, Y: 2}},
			[]r2.Vec{{X: 0, Y: 1}, {X: -2, Y: 0}},
			[]r2.Vec{{X: -1, Y: 0}, {X: 0, Y: -2}},
		)

		p := analysis.NewOrbitPortrait(traj, 2)
		Expect(p.Paths).To(HaveLen(2))
		Expect(p.Paths[0]).To(Equal([]analysis.Point{{X: 1, Y: 0}, {X: -1, Y: 0}}))
		Expect(p.Extent()).To(Equal(2.0))
	})

	It("rebuilds from stored states", func() {
		p := analysis.PortraitFromStates([][]float64{
			{1, 0, 0, 1, 0, 3, -1, 0},
			{0, 1, -1, 0, -3, 0, 0, -1},
		})
		Expect(p.Paths).To(HaveLen(2))
		Expect(p.Paths[1]).To(Equal([]analysis.Point{{X: 0, Y: 3}, {X: -3, Y: 0}}))
		Expect(p.Extent()).To(Equal(3.0))
	})
})
