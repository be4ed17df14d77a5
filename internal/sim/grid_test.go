package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/traysim/internal/dynamo"
)

func TestGridSplice(t *testing.T) {
	tests := []struct {
		name string
		k    int
		t    float64
		ok   bool
	}{
		{"inside cell", 2, 0.6, true},
		{"just after previous", 2, 0.2500001, true},
		{"equal to previous", 2, 0.25, false},
		{"equal to next", 2, 0.75, false},
		{"past next", 2, 0.8, false},
		{"first index", 0, -1, true},
		{"last index", 4, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(0.25, 5)
			err := g.SpliceInstant(tt.k, tt.t)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if g.At(tt.k) != tt.t || !g.Spliced(tt.k) {
					t.Errorf("splice not applied: %v", g.WorkingTimes())
				}
				return
			}
			if !errors.Is(err, dynamo.ErrGridOrder) {
				t.Fatalf("expected ErrGridOrder, got %v", err)
			}
			if g.Spliced(tt.k) {
				t.Error("rejected splice modified the grid")
			}
		})
	}
}

func TestGridKeepsNominal(t *testing.T) {
	g := NewGrid(0.5, 4)
	if err := g.SpliceInstant(1, 0.7); err != nil {
		t.Fatal(err)
	}
	if g.Nominal(1) != 0.5 {
		t.Errorf("nominal grid changed: %v", g.NominalTimes())
	}
	if g.Len() != 4 || len(g.NominalTimes()) != 4 {
		t.Errorf("grid length changed")
	}
}
