package physics

import (
	"math"
	"testing"
)

const g = 9.81

func TestTrayKinematics(t *testing.T) {
	w, a := 10.0, 0.2
	tests := []struct {
		name   string
		t      float64
		pos    float64
		vel    float64
		tolPos float64
		tolVel float64
	}{
		{"origin", 0, 0, a * w, 1e-15, 1e-15},
		{"quarter period", math.Pi / (2 * w), a, 0, 1e-15, 1e-14},
		{"half period", math.Pi / w, 0, -a * w, 1e-14, 1e-14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrayPosition(w, tt.t, a); math.Abs(got-tt.pos) > tt.tolPos {
				t.Errorf("TrayPosition = %v, want %v", got, tt.pos)
			}
			if got := TrayVelocity(w, tt.t, a); math.Abs(got-tt.vel) > tt.tolVel {
				t.Errorf("TrayVelocity = %v, want %v", got, tt.vel)
			}
		})
	}
}

func TestBallFreeFlight(t *testing.T) {
	y := BallPosition(1.0, 2.0, 3.0, g)
	if math.Abs(y-(3.0+2.0-0.5*g)) > 1e-12 {
		t.Errorf("unexpected height %f", y)
	}

	v := BallVelocity(1.0, 2.0, g)
	if math.Abs(v-(2.0-g)) > 1e-12 {
		t.Errorf("unexpected velocity %f", v)
	}

	if BallPosition(0, 5, 7, g) != 7 {
		t.Error("zero elapsed time must return the initial height")
	}
}

func TestRestituteBoundsRelativeSpeed(t *testing.T) {
	tests := []struct {
		vBall, vTray, mu float64
	}{
		{-3.0, 0.0, 0.53},
		{-3.0, 1.2, 0.53},
		{-0.1, -0.5, 1.0},
		{-7.5, 2.0, 0.0},
		{-2.0, -1.0, 0.9},
	}

	for _, tt := range tests {
		v := Restitute(tt.vBall, tt.vTray, tt.mu)
		before := math.Abs(tt.vBall - tt.vTray)
		after := math.Abs(v - tt.vTray)
		if after > before+1e-12 {
			t.Errorf("relative speed grew: before=%f after=%f (mu=%f)", before, after, tt.mu)
		}
		if math.Abs(after-tt.mu*before) > 1e-12 {
			t.Errorf("expected |v'-vt| = mu*|v-vt| = %f, got %f", tt.mu*before, after)
		}
	}
}

func TestStepSize(t *testing.T) {
	tests := []struct {
		name string
		w    float64
	}{
		{"slow tray", 1.0},
		{"medium tray", 60.0},
		{"boundary", math.Pi / (10 * 0.001)},
		{"fast tray", 1000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt := StepSize(tt.w, 0.001)
			quarter := math.Pi / (2 * tt.w)

			r := quarter / dt
			if math.Abs(r-math.Round(r)) > 1e-9 {
				t.Errorf("dt=%g is not a whole fraction of the quarter period (r=%f)", dt, r)
			}
			if math.Round(r) < 5 {
				t.Errorf("fewer than 5 samples per quarter period: r=%f", r)
			}
			if quarter/5 > 0.001 {
				if dt > 0.001+1e-15 {
					t.Errorf("dt=%g exceeds the target resolution", dt)
				}
				coarser := quarter / (math.Round(r) - 1)
				if coarser <= 0.001 {
					t.Errorf("r=%f is not the smallest integer meeting the resolution", r)
				}
			}
		})
	}
}

func TestStepSizeStationaryTray(t *testing.T) {
	if dt := StepSize(0, 0.001); dt != 0.001 {
		t.Errorf("expected nominal step 0.001 for w=0, got %g", dt)
	}
}

func TestGridLength(t *testing.T) {
	if n := GridLength(1.0, 0.1); n != 11 && n != 12 {
		t.Errorf("expected ~11 samples, got %d", n)
	}
	if n := GridLength(1.0, 0.3); n != 5 {
		t.Errorf("expected 5 samples, got %d", n)
	}
}

func TestPredictSeparation(t *testing.T) {
	tests := []struct {
		name     string
		w, a     float64
		possible bool
	}{
		{"stationary", 0, 0.1, false},
		{"flat", 20, 0, false},
		{"weak drive", 5, 0.01, false},
		{"just above threshold", 1.01 * math.Sqrt(g/0.1), 0.1, true},
		{"strong drive", 30, 0.05, true},
		{"negative amplitude", 30, -0.05, true},
		{"weak negative amplitude", 5, -0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sep := PredictSeparation(tt.w, tt.a, g)
			if sep.Possible != tt.possible {
				t.Fatalf("Possible = %v, want %v (K=%f)", sep.Possible, tt.possible, sep.K)
			}
			if !sep.Possible {
				return
			}
			k := g / (tt.a * tt.w * tt.w)
			if math.Abs(math.Sin(sep.Phase)-k) > 1e-12 {
				t.Errorf("sin(phase) = %f, want K = %f", math.Sin(sep.Phase), k)
			}
			if math.Abs(sep.FirstTime*tt.w-sep.Phase) > 1e-12 {
				t.Errorf("FirstTime*w = %f, want phase %f", sep.FirstTime*tt.w, sep.Phase)
			}
			// the tray must be accelerating downward faster than g right after take-off
			after := TrayAcceleration(tt.w, sep.FirstTime+1e-4, tt.a)
			if after > -g {
				t.Errorf("tray acceleration %f after take-off does not exceed gravity", after)
			}
		})
	}
}

func TestAdvanceSeparation(t *testing.T) {
	w := 30.0
	sep := PredictSeparation(w, 0.05, g)
	period := 2 * math.Pi / w

	for _, now := range []float64{0, sep.FirstTime, sep.FirstTime + 1e-9, 0.5, 1.0, 3 * period, 10.123} {
		next := AdvanceSeparation(w, now, sep.FirstTime)
		if next <= now {
			t.Errorf("AdvanceSeparation(%f) = %f is not after now", now, next)
		}
		if next-now > period+1e-12 {
			t.Errorf("AdvanceSeparation(%f) = %f skipped a cycle", now, next)
		}
		cycles := (next - sep.FirstTime) / period
		if math.Abs(cycles-math.Round(cycles)) > 1e-9 {
			t.Errorf("AdvanceSeparation(%f) = %f is not on the take-off phase", now, next)
		}
	}
}
