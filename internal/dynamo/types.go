package dynamo

import (
	"fmt"
	"math"
)

const (
	DefaultGravity     = 9.81
	DefaultRestitution = 0.53
	DefaultDuration    = 10.0
)

// Params describes one ball-on-tray run. It is treated as immutable once a
// run starts.
type Params struct {
	Omega       float64 `json:"omega" yaml:"omega" toml:"omega"`
	Amplitude   float64 `json:"amplitude" yaml:"amplitude" toml:"amplitude"`
	Gravity     float64 `json:"gravity" yaml:"gravity" toml:"gravity"`
	Restitution float64 `json:"restitution" yaml:"restitution" toml:"restitution"`
	Duration    float64 `json:"duration" yaml:"duration" toml:"duration"`
	Height      float64 `json:"height" yaml:"height" toml:"height"`
	Velocity    float64 `json:"velocity" yaml:"velocity" toml:"velocity"`
}

func DefaultParams() Params {
	return Params{
		Gravity:     DefaultGravity,
		Restitution: DefaultRestitution,
		Duration:    DefaultDuration,
	}
}

func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"omega":       p.Omega,
		"amplitude":   p.Amplitude,
		"gravity":     p.Gravity,
		"restitution": p.Restitution,
		"duration":    p.Duration,
		"height":      p.Height,
		"velocity":    p.Velocity,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrParameterBounds, name)
		}
	}
	if p.Omega < 0 {
		return fmt.Errorf("%w: omega must be >= 0, got %g", ErrParameterBounds, p.Omega)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrParameterBounds, p.Duration)
	}
	if p.Gravity <= 0 {
		return fmt.Errorf("%w: gravity must be positive, got %g", ErrParameterBounds, p.Gravity)
	}
	if p.Restitution < 0 {
		return fmt.Errorf("%w: restitution must be >= 0, got %g", ErrParameterBounds, p.Restitution)
	}
	// tray height at t=0 is always zero
	if p.Height < 0 {
		return fmt.Errorf("%w: initial height %g is below the tray", ErrParameterBounds, p.Height)
	}
	return nil
}

// SolverConfig holds the numerical knobs of the event-driven integrator.
type SolverConfig struct {
	XTol    float64 `json:"xtol" yaml:"xtol" toml:"xtol"`
	RTol    float64 `json:"rtol" yaml:"rtol" toml:"rtol"`
	MaxIter int     `json:"max_iter" yaml:"max_iter" toml:"max_iter"`
	// LookAhead is the free-flight horizon used to decide whether a ball that
	// just touched the tray leaves it again.
	LookAhead float64 `json:"look_ahead" yaml:"look_ahead" toml:"look_ahead"`
	// Resolution is the target sampling interval fed to the step selector.
	Resolution float64 `json:"resolution" yaml:"resolution" toml:"resolution"`
	// ContactTolerance of zero means exact equality between ball and tray
	// heights. Contact states are always copied from tray kinematics, so the
	// exact comparison is stable.
	ContactTolerance float64 `json:"contact_tolerance" yaml:"contact_tolerance" toml:"contact_tolerance"`
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		XTol:       2e-12,
		RTol:       4 * 2.220446049250313e-16,
		MaxIter:    100,
		LookAhead:  0.01,
		Resolution: 0.001,
	}
}

func (c SolverConfig) Validate() error {
	if c.XTol <= 0 || c.RTol < 0 {
		return fmt.Errorf("%w: tolerances must be positive (xtol=%g, rtol=%g)", ErrParameterBounds, c.XTol, c.RTol)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("%w: max_iter must be positive, got %d", ErrParameterBounds, c.MaxIter)
	}
	if c.LookAhead <= 0 {
		return fmt.Errorf("%w: look_ahead must be positive, got %g", ErrParameterBounds, c.LookAhead)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got %g", ErrParameterBounds, c.Resolution)
	}
	if c.ContactTolerance < 0 {
		return fmt.Errorf("%w: contact_tolerance must be >= 0, got %g", ErrParameterBounds, c.ContactTolerance)
	}
	return nil
}

// Regime is the state of the ball relative to the tray.
type Regime uint8

const (
	Free Regime = iota
	Contact
	Adhered
)

func (r Regime) String() string {
	switch r {
	case Free:
		return "FREE"
	case Contact:
		return "CONTACT"
	case Adhered:
		return "ADHERED"
	default:
		return fmt.Sprintf("Regime(%d)", uint8(r))
	}
}

func (r Regime) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Regime) UnmarshalText(b []byte) error {
	reg, err := ParseRegime(string(b))
	if err != nil {
		return err
	}
	*r = reg
	return nil
}

func ParseRegime(s string) (Regime, error) {
	switch s {
	case "FREE":
		return Free, nil
	case "CONTACT":
		return Contact, nil
	case "ADHERED":
		return Adhered, nil
	}
	return Free, fmt.Errorf("unknown regime %q", s)
}

// Sample is one processed grid index of a finished run.
type Sample struct {
	Index      int
	Time       float64
	Height     float64
	Velocity   float64
	TrayHeight float64
	Regime     Regime
}

// Metric reduces a finished trajectory to a single number.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observer is notified whenever the ball changes regime during a run.
type Observer interface {
	OnTransition(from, to Regime, index int, t float64)
}

type Result struct {
	Params Params       `json:"params"`
	Solver SolverConfig `json:"solver"`
	Dt     float64      `json:"dt"`

	// Reference is the uniform grid, TrayHeight is evaluated on it.
	Reference  []float64 `json:"reference"`
	TrayHeight []float64 `json:"tray_height"`

	// Times is the working grid with collision and take-off instants spliced in.
	Times    []float64 `json:"times"`
	Height   []float64 `json:"height"`
	Velocity []float64 `json:"velocity"`
	Regimes  []Regime  `json:"regimes"`

	Collisions []int              `json:"collisions"`
	Final      Regime             `json:"final"`
	AdheredAt  int                `json:"adhered_at"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (r *Result) Len() int { return len(r.Times) }

// Sample returns the i-th processed index with the tray evaluated on the
// working grid.
func (r *Result) Sample(i int) Sample {
	t := r.Times[i]
	return Sample{
		Index:      i,
		Time:       t,
		Height:     r.Height[i],
		Velocity:   r.Velocity[i],
		TrayHeight: r.Params.Amplitude * math.Sin(r.Params.Omega*t),
		Regime:     r.Regimes[i],
	}
}

func (r *Result) Adhered() bool { return r.Final == Adhered }
