// Package physics implements planar Newtonian gravity around a fixed central
// mass.
//
// Two models are provided, both satisfying [dynamo.System] and
// [dynamo.Hamiltonian]:
//
//   - [CentralBody]: one body under central gravity only
//   - [CoupledPair]: two bodies under central gravity and their mutual attraction
//
// The pure force laws are exposed as [OneBodyAcceleration] and
// [TwoBodyAcceleration]. Neither guards against vanishing distances; a
// simulator detects the resulting non-finite state and aborts the run.
//
// All quantities are SI: meters, kilograms, seconds.
package physics
