package metrics

import (
	"math"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/physics"
)

// MeanEnergy averages the mechanical energy per unit mass of the ball.
type MeanEnergy struct {
	name        string
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewMeanEnergy(gravity float64) *MeanEnergy {
	return &MeanEnergy{
		name:    "mean_energy",
		gravity: gravity,
	}
}

func (e *MeanEnergy) Name() string { return e.name }

func (e *MeanEnergy) Observe(s dynamo.Sample) {
	e.totalEnergy += physics.Energy(s.Height, s.Velocity, e.gravity)
	e.samples++
}

func (e *MeanEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *MeanEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyLoss is the relative energy lost between the first and the last
// sample. A driven tray can pump energy in, giving a negative value.
type EnergyLoss struct {
	name          string
	gravity       float64
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyLoss(gravity float64) *EnergyLoss {
	return &EnergyLoss{
		name:    "energy_loss",
		gravity: gravity,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(s dynamo.Sample) {
	energy := physics.Energy(s.Height, s.Velocity, e.gravity)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.samples == 0 || e.initialEnergy == 0 {
		return 0
	}
	return (e.initialEnergy - e.currentEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyLoss) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}
