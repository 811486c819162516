package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt     = 0.001
	DefaultSteps  = 1000
	DefaultGridN  = 256
	DefaultLength = 20.0
	DefaultSigma  = 1.0
)

// Config describes one evolution run.
type Config struct {
	Model         string  `yaml:"model"`   // riccati, oscillator, free, trap, gpe
	Evolver       string  `yaml:"evolver"` // abm, split
	Dt            float64 `yaml:"dt"`
	Steps         int     `yaml:"steps"`
	T0            float64 `yaml:"t0"`
	Normalize     bool    `yaml:"normalize"`
	ImaginaryTime bool    `yaml:"imaginary_time"`
	Interaction   float64 `yaml:"interaction"` // g in g|psi|^2

	Grid      GridConfig      `yaml:"grid"`
	InitState InitStateConfig `yaml:"init_state"`

	// Record every Sample-th step (0 means every step).
	Sample int `yaml:"sample"`
}

// GridConfig describes the periodic box for wave models.
type GridConfig struct {
	N      int     `yaml:"n"`
	Length float64 `yaml:"length"`
}

// InitStateConfig describes the initial condition.
type InitStateConfig struct {
	// Y is the initial vector for the ODE models.
	Y []float64 `yaml:"y"`
	// Gaussian packet parameters for the wave models.
	X0    float64 `yaml:"x0"`
	Sigma float64 `yaml:"sigma"`
	K0    float64 `yaml:"k0"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:   "riccati",
		Evolver: "abm",
		Dt:      DefaultDt,
		Steps:   DefaultSteps,
		Grid: GridConfig{
			N:      DefaultGridN,
			Length: DefaultLength,
		},
		InitState: InitStateConfig{
			Y:     []float64{1, 2},
			Sigma: DefaultSigma,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the evolvers would refuse anyway, with
// friendlier messages.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	switch c.Evolver {
	case "abm", "split":
	default:
		return fmt.Errorf("unknown evolver %q (want abm or split)", c.Evolver)
	}
	if c.Grid.N > 0 && c.Grid.N&(c.Grid.N-1) != 0 {
		return fmt.Errorf("grid n must be a power of two, got %d", c.Grid.N)
	}
	return nil
}
