// Package solver provides bracketed root finding for event detection.
package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/traysim/internal/dynamo"
)

// Bisection locates a root of a continuous function inside a bracket whose
// end points have opposite signs.
type Bisection struct {
	XTol    float64
	RTol    float64
	MaxIter int
}

func NewBisection(cfg dynamo.SolverConfig) *Bisection {
	return &Bisection{
		XTol:    cfg.XTol,
		RTol:    cfg.RTol,
		MaxIter: cfg.MaxIter,
	}
}

// Find returns x in [lo, hi] with |x - root| < XTol + RTol|x|, and the number
// of halvings it took. An end point that is already a root is returned
// as is.
func (b *Bisection) Find(f func(float64) float64, lo, hi float64) (float64, int, error) {
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0, 0, fmt.Errorf("%w: f(%.12g)=%g, f(%.12g)=%g", dynamo.ErrInvalidBracket, lo, flo, hi, fhi)
	}
	if flo == 0 {
		return lo, 0, nil
	}
	if fhi == 0 {
		return hi, 0, nil
	}

	dm := hi - lo
	for i := 0; i < b.MaxIter; i++ {
		dm *= 0.5
		xm := lo + dm
		fm := f(xm)
		if fm*flo >= 0 {
			lo = xm
		}
		if fm == 0 || math.Abs(dm) < b.XTol+b.RTol*math.Abs(xm) {
			return xm, i + 1, nil
		}
	}

	return 0, b.MaxIter, fmt.Errorf("%w: %d iterations on [%.12g, %.12g]", dynamo.ErrNoConvergence, b.MaxIter, lo, lo+2*dm)
}
