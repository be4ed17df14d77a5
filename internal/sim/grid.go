package sim

import (
	"fmt"

	"github.com/san-kum/traysim/internal/dynamo"
)

// Grid pairs the uniform reference grid with the working grid that receives
// exact collision and take-off instants. Both have the same fixed length.
type Grid struct {
	nominal []float64
	working []float64
}

func NewGrid(dt float64, n int) *Grid {
	g := &Grid{
		nominal: make([]float64, n),
		working: make([]float64, n),
	}
	for k := range g.nominal {
		g.nominal[k] = float64(k) * dt
	}
	copy(g.working, g.nominal)
	return g
}

func (g *Grid) Len() int { return len(g.working) }

// At returns the working instant at index k.
func (g *Grid) At(k int) float64 { return g.working[k] }

// Nominal returns the reference instant at index k.
func (g *Grid) Nominal(k int) float64 { return g.nominal[k] }

// SpliceInstant replaces the working instant at index k. The grid must stay
// strictly increasing.
func (g *Grid) SpliceInstant(k int, t float64) error {
	if k > 0 && t <= g.working[k-1] {
		return fmt.Errorf("%w: t[%d]=%.15g <= t[%d]=%.15g", dynamo.ErrGridOrder, k, t, k-1, g.working[k-1])
	}
	if k < len(g.working)-1 && t >= g.working[k+1] {
		return fmt.Errorf("%w: t[%d]=%.15g >= t[%d]=%.15g", dynamo.ErrGridOrder, k, t, k+1, g.working[k+1])
	}
	g.working[k] = t
	return nil
}

// Spliced reports whether index k no longer holds its reference instant.
func (g *Grid) Spliced(k int) bool { return g.working[k] != g.nominal[k] }

func (g *Grid) NominalTimes() []float64 { return g.nominal }
func (g *Grid) WorkingTimes() []float64 { return g.working }
