package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/traysim/internal/physics"
)

func preset(name string, omega, amplitude, height, duration float64) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Params.Omega = omega
	cfg.Params.Amplitude = amplitude
	cfg.Params.Height = height
	cfg.Params.Duration = duration
	return cfg
}

var Presets = map[string]*Config{
	// periodic bouncing, separation just possible
	"gentle": preset("gentle", 20, 0.03, 0.1, 10),
	// strong drive, irregular impacts
	"chaotic": preset("chaotic", 30, 0.05, 0.2, 20),
	// starts on the tray and is thrown off at the first take-off phase
	"resting": preset("resting", 25, 0.03, 0, 10),
	// bouncing ball on a still tray, settles
	"stationary": preset("stationary", 0, 0, 1, 5),
	// tray too weak to throw the ball
	"adhering": preset("adhering", 5, 0.01, 0, 5),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe summarises a preset for listings.
func Describe(cfg *Config) string {
	p := cfg.Params
	sep := physics.PredictSeparation(p.Omega, p.Amplitude, p.Gravity)
	if !sep.Possible {
		return "no take-off"
	}
	return fmt.Sprintf("take-off at phase %.3f rad", sep.Phase)
}
