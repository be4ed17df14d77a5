// Package physics provides the closed-form mechanics of a ball on a
// sinusoidally driven tray.
//
// Everything here is a pure function of its arguments:
//
//   - [TrayPosition], [TrayVelocity]: tray motion A sin(wt)
//   - [BallPosition], [BallVelocity]: free flight from a known state
//   - [Restitute]: damped normal restitution in the tray frame
//   - [StepSize]: frequency-dependent sampling interval
//   - [PredictSeparation], [AdvanceSeparation]: analytic take-off instants
//
// # Take-off
//
// A ball resting on the tray leaves it once the tray accelerates downward
// faster than gravity:
//
//	sep := physics.PredictSeparation(w, A, g)
//	if sep.Possible {
//	    next := physics.AdvanceSeparation(w, t, sep.FirstTime)
//	}
package physics
