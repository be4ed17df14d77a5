package sim

import (
	"go.uber.org/zap"

	"github.com/san-kum/traysim/internal/dynamo"
)

// LogObserver writes every regime transition to a logger at debug level.
type LogObserver struct {
	Log *zap.Logger
}

func (o LogObserver) OnTransition(from, to dynamo.Regime, index int, t float64) {
	o.Log.Debug("regime transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("index", index),
		zap.Float64("t", t),
	)
}

// Transition is one recorded regime change.
type Transition struct {
	From, To dynamo.Regime
	Index    int
	Time     float64
}

// Recorder keeps the transitions of a single run in order.
type Recorder struct {
	Transitions []Transition
}

func (r *Recorder) OnTransition(from, to dynamo.Regime, index int, t float64) {
	r.Transitions = append(r.Transitions, Transition{From: from, To: to, Index: index, Time: t})
}
