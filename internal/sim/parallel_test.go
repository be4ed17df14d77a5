package sim

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/traysim/internal/dynamo"
)

func TestEnsembleMatchesSequentialRuns(t *testing.T) {
	ps := []dynamo.Params{
		params(0, 0, 1, 0, 1),
		params(30, 0.05, 0.2, 0, 1),
		params(25, 0.03, 0, 0, 1),
		params(5, 0.01, 0, 0, 1),
	}

	e := NewEnsemble(func() *Simulator { return New(WithMetrics(&countMetric{})) }, 2)
	results, err := e.Run(context.Background(), ps, dynamo.DefaultSolverConfig())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != len(ps) {
		t.Fatalf("expected %d results, got %d", len(ps), len(results))
	}

	for i, p := range ps {
		want, err := New(WithMetrics(&countMetric{})).Run(context.Background(), p, dynamo.DefaultSolverConfig())
		if err != nil {
			t.Fatalf("sequential run %d failed: %v", i, err)
		}
		if !reflect.DeepEqual(results[i], want) {
			t.Errorf("run %d differs from its sequential counterpart", i)
		}
	}
}

func TestEnsembleStopsOnError(t *testing.T) {
	ps := []dynamo.Params{
		params(30, 0.05, 0.2, 0, 1),
		params(-1, 0.05, 0.2, 0, 1),
	}

	_, err := NewEnsemble(nil, 0).Run(context.Background(), ps, dynamo.DefaultSolverConfig())
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}
