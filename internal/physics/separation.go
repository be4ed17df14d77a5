package physics

import "math"

// Separation describes whether a ball riding the tray can ever take off.
type Separation struct {
	Possible bool
	// Phase is the tray phase of take-off within one cycle, sin(Phase) = K.
	Phase float64
	// FirstTime is Phase/w, the first take-off instant.
	FirstTime float64
	// K is g/(A w^2). Take-off requires |K| <= 1.
	K float64
}

// PredictSeparation computes the take-off phase for a tray of frequency w and
// amplitude a under gravity g. The ball leaves the tray where the tray's
// downward acceleration first exceeds g.
func PredictSeparation(w, a, g float64) Separation {
	if w == 0 || a == 0 {
		return Separation{K: math.Inf(1)}
	}
	k := g / (a * w * w)
	if math.Abs(k) > 1 {
		return Separation{K: k}
	}
	phase := math.Asin(k)
	if a < 0 {
		// sin must be decreasing through k for the acceleration -a w^2 sin
		// to fall through -g.
		phase = math.Pi - phase
	}
	return Separation{
		Possible:  true,
		Phase:     phase,
		FirstTime: phase / w,
		K:         k,
	}
}

// AdvanceSeparation rolls the first take-off instant forward by whole tray
// periods and returns the first one strictly after tNow.
func AdvanceSeparation(w, tNow, first float64) float64 {
	period := 2 * math.Pi / w
	n := math.Floor(tNow * w / (2 * math.Pi))
	next := first + n*period
	if next <= tNow {
		next += period
	}
	return next
}

// Period returns the tray period, or +Inf for a stationary tray.
func Period(w float64) float64 {
	if w == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / w
}
