package metrics

import (
	"math"

	"github.com/san-kum/traysim/internal/dynamo"
)

// Landings counts the samples where a ball in free flight reaches the tray.
type Landings struct {
	name     string
	count    int
	prevFree bool
}

func NewLandings() *Landings {
	return &Landings{name: "landings"}
}

func (l *Landings) Name() string { return l.name }

func (l *Landings) Observe(s dynamo.Sample) {
	if l.prevFree && s.Regime != dynamo.Free {
		l.count++
	}
	l.prevFree = s.Regime == dynamo.Free
}

func (l *Landings) Value() float64 { return float64(l.count) }

func (l *Landings) Reset() {
	l.count = 0
	l.prevFree = false
}

// PeakClearance is the largest gap between the ball and the tray.
type PeakClearance struct {
	name string
	peak float64
}

func NewPeakClearance() *PeakClearance {
	return &PeakClearance{name: "peak_clearance"}
}

func (p *PeakClearance) Name() string { return p.name }

func (p *PeakClearance) Observe(s dynamo.Sample) {
	p.peak = math.Max(p.peak, s.Height-s.TrayHeight)
}

func (p *PeakClearance) Value() float64 { return p.peak }

func (p *PeakClearance) Reset() { p.peak = 0 }

// Standard returns the metric set attached to stored runs.
func Standard(gravity float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewLandings(),
		NewPeakClearance(),
		NewContactFraction(),
		NewMeanEnergy(gravity),
		NewEnergyLoss(gravity),
	}
}
