// Package analysis post-processes finished runs.
//
// The package includes tools for characterizing the bouncing motion:
//
//   - [Bounces]: impact events with tray phase and relative speeds
//   - [Flights]: apex and duration of every free flight
//   - [ImpactPhaseDiagram]: impact phases across a frequency sweep
//   - [ImpactMap]: the stroboscopic impact section (phase, take-off speed)
//   - [Divergence]: growth rate of the gap between two nearby runs
//   - [HeightSpectrum]: power spectrum of the ball height
//
// # Chaos Detection
//
// A positive divergence between runs started a few micrometres apart
// indicates chaotic bouncing:
//
//	lambda := analysis.Divergence(a, b)
//	if lambda > 0 {
//	    // bouncing is chaotic
//	}
package analysis
