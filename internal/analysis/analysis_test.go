package analysis

import (
	"math"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/sim"
)

func run(t *testing.T, w, a, h, d float64) *dynamo.Result {
	t.Helper()
	p := dynamo.DefaultParams()
	p.Omega, p.Amplitude, p.Height, p.Duration = w, a, h, d
	res, err := sim.Simulate(p)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	return res
}

func TestBouncesOnStillTray(t *testing.T) {
	res := run(t, 0, 0, 1, 3)
	bounces := Bounces(res)

	if len(bounces) != len(res.Collisions) {
		t.Fatalf("expected %d bounces, got %d", len(res.Collisions), len(bounces))
	}
	for i, b := range bounces {
		if b.Phase != 0 {
			t.Errorf("bounce %d: phase %f on a still tray", i, b.Phase)
		}
		if b.TakeOff <= 0 {
			t.Errorf("bounce %d: take-off speed %f not upward", i, b.TakeOff)
		}
		if i > 0 && b.TakeOff >= bounces[i-1].TakeOff {
			t.Errorf("bounce %d: take-off speed did not decay", i)
		}
	}
}

func TestFlights(t *testing.T) {
	res := run(t, 0, 0, 1, 3)
	flights := Flights(res)
	if len(flights) == 0 {
		t.Fatal("expected flights")
	}

	first := flights[0]
	if first.Start != 0 || first.Apex != 1 {
		t.Errorf("unexpected first flight %+v", first)
	}
	want := res.Times[res.Collisions[0]]
	if math.Abs(first.Duration-want) > 1e-12 {
		t.Errorf("first flight lasted %f, want %f", first.Duration, want)
	}
	for _, f := range flights[1:] {
		if f.Apex >= 1 || f.Duration <= 0 {
			t.Errorf("unexpected flight %+v", f)
		}
	}
}

func TestWrapPhase(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{2*math.Pi + 1, 1},
		{-1, 2*math.Pi - 1},
	}
	for _, tt := range tests {
		if got := wrapPhase(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("wrapPhase(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestImpactPhaseDiagram(t *testing.T) {
	results := []*dynamo.Result{
		run(t, 28, 0.05, 0.1, 3),
		run(t, 30, 0.05, 0.1, 3),
	}

	diagram := ImpactPhaseDiagram(results, 1)
	if len(diagram) != 2 {
		t.Fatalf("expected 2 points, got %d", len(diagram))
	}
	for i, p := range diagram {
		if p.Param != results[i].Params.Omega {
			t.Errorf("point %d param %f", i, p.Param)
		}
		for _, v := range p.Values {
			if v < 0 || v >= 2*math.Pi {
				t.Errorf("phase %f out of range", v)
			}
		}
	}

	art := BifurcationToASCII(diagram, 20, 5)
	if art != "" && len(strings.Split(strings.TrimRight(art, "\n"), "\n")) != 5 {
		t.Errorf("unexpected canvas:\n%s", art)
	}
}

func TestBifurcationToASCIIEmpty(t *testing.T) {
	if BifurcationToASCII(nil, 10, 10) != "" {
		t.Error("expected empty output")
	}
	if BifurcationToASCII([]BifurcationPoint{{Param: 1}}, 10, 10) != "" {
		t.Error("expected empty output without values")
	}
}

func TestImpactMapMatchesBounces(t *testing.T) {
	res := run(t, 30, 0.05, 0.2, 2)
	points := ImpactMap(res)
	bounces := Bounces(res)
	if len(points) != len(bounces) {
		t.Fatalf("expected %d points, got %d", len(bounces), len(points))
	}
	for i := range points {
		if points[i].X != bounces[i].Phase || points[i].Y != bounces[i].TakeOff {
			t.Errorf("point %d mismatch", i)
		}
	}
}

func TestPhasePortraitOnTray(t *testing.T) {
	res := run(t, 5, 0.01, 0, 1)
	for i, pt := range PhasePortrait(res)[1:] {
		if pt.X != 0 || math.Abs(pt.Y) > 1e-15 {
			t.Fatalf("sample %d: adhered ball off the tray (%f, %f)", i+1, pt.X, pt.Y)
		}
	}
}

func TestDivergenceIdenticalRuns(t *testing.T) {
	a := run(t, 30, 0.05, 0.2, 1)
	b := run(t, 30, 0.05, 0.2, 1)
	if d := Divergence(a, b); d != 0 {
		t.Errorf("identical runs diverge at %f", d)
	}
}

func TestPowerSpectrum(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	if len(ps) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(ps))
	}
	peak := 0
	for i := range ps {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak != 8 {
		t.Errorf("expected peak at bin 8, got %d", peak)
	}

	if got := len(PowerSpectrum(make([]float64, 100))); got != 64 {
		t.Errorf("expected padding to 128 samples, got %d bins", got)
	}
}

func TestHeightSpectrumDominant(t *testing.T) {
	dt := 0.01
	res := &dynamo.Result{Dt: dt, Height: make([]float64, 1024)}
	res.Times = make([]float64, len(res.Height))
	for i := range res.Height {
		res.Times[i] = float64(i) * dt
		res.Height[i] = math.Sin(2 * math.Pi * 5 * res.Times[i])
	}

	spectrum := HeightSpectrum(res)
	if f := spectrum.Dominant(); math.Abs(f-5) > 0.1 {
		t.Errorf("dominant frequency %f, want 5", f)
	}
}

func TestFFTAnyLength(t *testing.T) {
	out := FFT([]float64{1, 1, 1, 1, 1, 1})
	if len(out) != 6 {
		t.Fatalf("expected 6 bins, got %d", len(out))
	}
	if math.Abs(real(out[0])-6) > 1e-9 {
		t.Errorf("dc bin %v, want 6", out[0])
	}
	for k := 1; k < len(out); k++ {
		if cmplx.Abs(out[k]) > 1e-9 {
			t.Errorf("bin %d = %v, want 0", k, out[k])
		}
	}
	if FFT(nil) != nil {
		t.Error("FFT of nothing should be nil")
	}
}
