package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/traysim/internal/dynamo"
)

// Config is a run file. Fields missing from the file keep their defaults.
type Config struct {
	Name   string              `yaml:"name" toml:"name"`
	Params dynamo.Params       `yaml:"params" toml:"params"`
	Solver dynamo.SolverConfig `yaml:"solver" toml:"solver"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:   "default",
		Params: dynamo.DefaultParams(),
		Solver: dynamo.DefaultSolverConfig(),
	}
}

// Load reads a run file. The format follows the extension: .toml is decoded
// as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto decodes the run file over base, so fields absent from the file
// keep the values of base. base is modified and returned.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	return c.Solver.Validate()
}
