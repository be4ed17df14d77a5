package analysis

import (
	"math"

	"github.com/san-kum/traysim/internal/dynamo"
)

// Bounce is one logged impact.
type Bounce struct {
	Index int
	Time  float64
	// Phase is the tray phase w*t wrapped to [0, 2pi).
	Phase float64
	// TakeOff is the post-impact velocity relative to the tray.
	TakeOff float64
}

func wrapPhase(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}

func Bounces(res *dynamo.Result) []Bounce {
	p := res.Params
	out := make([]Bounce, 0, len(res.Collisions))
	for _, c := range res.Collisions {
		t := res.Times[c]
		vTray := p.Amplitude * p.Omega * math.Cos(p.Omega*t)
		out = append(out, Bounce{
			Index:   c,
			Time:    t,
			Phase:   wrapPhase(p.Omega * t),
			TakeOff: res.Velocity[c] - vTray,
		})
	}
	return out
}

// Flight is a maximal run of free samples.
type Flight struct {
	Start, End int
	Duration   float64
	// Apex is the highest sampled ball height of the flight.
	Apex float64
}

func Flights(res *dynamo.Result) []Flight {
	out := make([]Flight, 0)
	start := -1
	for i := 0; i <= res.Len(); i++ {
		free := i < res.Len() && res.Regimes[i] == dynamo.Free
		switch {
		case free && start < 0:
			start = i
		case !free && start >= 0:
			f := Flight{Start: start, End: i - 1, Apex: res.Height[start]}
			for k := start; k < i; k++ {
				f.Apex = math.Max(f.Apex, res.Height[k])
			}
			// a flight is bounded by the contact samples around it
			from, to := start, i-1
			if start > 0 {
				from = start - 1
			}
			if i < res.Len() {
				to = i
			}
			f.Duration = res.Times[to] - res.Times[from]
			out = append(out, f)
			start = -1
		}
	}
	return out
}
