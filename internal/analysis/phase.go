package analysis

import (
	"math"

	"github.com/san-kum/traysim/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait returns the ball state relative to the tray at every sample:
// X is the gap, Y the relative velocity.
func PhasePortrait(res *dynamo.Result) []Point {
	p := res.Params
	points := make([]Point, res.Len())
	for i := range points {
		t := res.Times[i]
		points[i] = Point{
			X: res.Height[i] - p.Amplitude*math.Sin(p.Omega*t),
			Y: res.Velocity[i] - p.Amplitude*p.Omega*math.Cos(p.Omega*t),
		}
	}
	return points
}

// ImpactMap is the stroboscopic section of the bouncing motion: one point per
// impact with X the tray phase and Y the relative take-off speed.
func ImpactMap(res *dynamo.Result) []Point {
	bounces := Bounces(res)
	points := make([]Point, len(bounces))
	for i, b := range bounces {
		points[i] = Point{X: b.Phase, Y: b.TakeOff}
	}
	return points
}

// Divergence estimates the exponential growth rate of the height difference
// between two runs that differ only slightly in their initial conditions.
// Both runs must share the same grid.
func Divergence(a, b *dynamo.Result) float64 {
	n := min(a.Len(), b.Len())
	if n < 2 {
		return 0
	}
	d0 := math.Abs(a.Height[0]-b.Height[0]) + math.Abs(a.Velocity[0]-b.Velocity[0])
	if d0 == 0 {
		return 0
	}

	sum, count := 0.0, 0
	for i := 1; i < n; i++ {
		d := math.Abs(a.Height[i]-b.Height[i]) + math.Abs(a.Velocity[i]-b.Velocity[i])
		if d == 0 {
			continue
		}
		t := a.Reference[i]
		sum += math.Log(d/d0) / t
		count++
	}
	if count == 0 {
		return math.Inf(-1)
	}
	return sum / float64(count)
}
