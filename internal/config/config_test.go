package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/traysim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Params.Gravity != 9.81 {
		t.Errorf("expected gravity 9.81, got %f", cfg.Params.Gravity)
	}
	if cfg.Params.Restitution != 0.53 {
		t.Errorf("expected restitution 0.53, got %f", cfg.Params.Restitution)
	}
	if cfg.Solver.MaxIter != 100 {
		t.Errorf("expected 100 iterations, got %d", cfg.Solver.MaxIter)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `name: drop
params:
  omega: 30
  amplitude: 0.05
  height: 0.2
solver:
  look_ahead: 0.02
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "drop" || cfg.Params.Omega != 30 || cfg.Params.Height != 0.2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Params.Gravity != 9.81 || cfg.Params.Duration != 10 {
		t.Errorf("defaults not kept: %+v", cfg.Params)
	}
	if cfg.Solver.LookAhead != 0.02 || cfg.Solver.XTol != 2e-12 {
		t.Errorf("unexpected solver config %+v", cfg.Solver)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	data := `name = "resting"

[params]
omega = 25.0
amplitude = 0.03
restitution = 0.7
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "resting" || cfg.Params.Omega != 25 || cfg.Params.Restitution != 0.7 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Params.Gravity != 9.81 {
		t.Errorf("default gravity lost: %f", cfg.Params.Gravity)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("params:\n  omega: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run"+ext)
			want := GetPreset("chaotic")
			if err := Save(path, want); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if *got != *want {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("resting")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params.Height != 0 || cfg.Params.Omega != 25 {
		t.Errorf("unexpected preset %+v", cfg.Params)
	}

	cfg.Params.Omega = 1
	if Presets["resting"].Params.Omega != 25 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] >= presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	for _, name := range presets {
		if err := Presets[name].Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(GetPreset("adhering")); got != "no take-off" {
		t.Errorf("adhering preset described as %q", got)
	}
	if got := Describe(GetPreset("gentle")); got == "no take-off" {
		t.Error("gentle preset should allow take-off")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TRAYSIM_DATA_DIR", "/tmp/traysim")
	t.Setenv("TRAYSIM_CACHE_TTL", "60")
	t.Setenv("TRAYSIM_REDIS_URL", "")

	s := LoadEnv()
	if s.DataDir != "/tmp/traysim" {
		t.Errorf("expected data dir from env, got %s", s.DataDir)
	}
	if s.CacheTTL != time.Minute {
		t.Errorf("expected 1m TTL, got %s", s.CacheTTL)
	}
	if s.Addr != ":8080" || s.RedisURL != "" {
		t.Errorf("unexpected defaults %+v", s)
	}
}

func TestLoadOntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("params:\n  omega: 40\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOnto(path, GetPreset("gentle"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Params.Omega != 40 {
		t.Errorf("omega %g, want the file value 40", cfg.Params.Omega)
	}
	if cfg.Params.Amplitude != 0.03 || cfg.Name != "gentle" {
		t.Errorf("preset fields lost: %+v", cfg)
	}
	if Presets["gentle"].Params.Omega != 20 {
		t.Error("loading onto a preset copy modified the preset table")
	}
}
