// Package dynamo provides the shared primitives of the ball-on-tray simulator.
//
// The package defines the types every other package speaks:
//
//   - [Params]: tray, ball and physical constants of one run
//   - [SolverConfig]: root-finder tolerances, look-ahead and step resolution
//   - [Regime]: FREE, CONTACT or the terminal ADHERED state
//   - [Result]: reference grid, working grid and trajectory arrays
//   - [Metric], [Observer]: hooks used by the simulator
//
// # Example
//
//	p := dynamo.DefaultParams()
//	p.Omega, p.Amplitude, p.Height = 20, 0.05, 0.1
//	res, err := sim.Simulate(p)
//
// # Errors
//
// Root-finder failures are never recoverable: they surface as a
// [*SimulationError] wrapping [ErrInvalidBracket] or [ErrNoConvergence].
package dynamo
