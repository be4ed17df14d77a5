package physics

import "math"

// StepSize picks the sampling interval for tray frequency w. A stationary
// tray has nothing to resolve and gets the target resolution itself.
// Otherwise the step is a whole fraction of a quarter period: five samples
// per quarter when that is already finer than the resolution, else the
// coarsest fraction that meets it.
func StepSize(w, resolution float64) float64 {
	if w == 0 {
		return resolution
	}
	quarter := math.Pi / (2 * w)
	if quarter/5 <= resolution {
		return quarter / 5
	}
	r := math.Ceil(quarter / resolution)
	return quarter / r
}

// GridLength is the number of samples covering [0, tMax] with step dt.
func GridLength(tMax, dt float64) int {
	return int(math.Ceil(tMax/dt)) + 1
}
