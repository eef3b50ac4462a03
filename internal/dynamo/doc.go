// Package dynamo provides the simulation primitives for planar gravitational systems.
//
// The package defines the fundamental interfaces and types shared by the
// physics models, the integrators and the analysis pipeline:
//
//   - [State]: flat per-body vector laid out as (x, y, vx, vy) for each body
//   - [System]: acceleration model for one or more bodies
//   - [Integrator]: fixed-step time stepper
//   - [Simulator]: produces a full [Trajectory] from an initial state
//   - [RunAll]: runs independent simulations concurrently
//
// # Example
//
//	sys := physics.NewCentralBody(physics.DefaultConstants(), 1.989e30, 5.972e24)
//	s := dynamo.New(sys, integrators.NewYoshida4())
//	traj, err := s.Run(ctx, x0, dynamo.Config{Dt: 86400, Steps: 365})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel runs give every
// [Job] its own Simulator and use [RunAll].
package dynamo
