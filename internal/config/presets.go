package config

var Presets = map[string]map[string]*Config{
	"riccati": {
		"default": {
			Model: "riccati", Evolver: "abm", Dt: 0.001, Steps: 1000,
			InitState: InitStateConfig{Y: []float64{1, 2}},
		},
		"coarse": {
			Model: "riccati", Evolver: "abm", Dt: 0.01, Steps: 100,
			InitState: InitStateConfig{Y: []float64{1, 2}},
		},
	},
	"oscillator": {
		"default": {
			Model: "oscillator", Evolver: "abm", Dt: 0.001, Steps: 10000,
			InitState: InitStateConfig{Y: []float64{1, 0}},
		},
	},
	"free": {
		"packet": {
			Model: "free", Evolver: "split", Dt: 0.005, Steps: 2000,
			Grid:      GridConfig{N: 256, Length: 40},
			InitState: InitStateConfig{X0: -10, Sigma: 1, K0: 2},
		},
	},
	"trap": {
		"breathing": {
			Model: "trap", Evolver: "split", Dt: 0.002, Steps: 5000,
			Grid:      GridConfig{N: 256, Length: 20},
			InitState: InitStateConfig{X0: 0, Sigma: 1.5, K0: 0},
		},
		"sloshing": {
			Model: "trap", Evolver: "split", Dt: 0.002, Steps: 5000,
			Grid:      GridConfig{N: 256, Length: 20},
			InitState: InitStateConfig{X0: 2, Sigma: 1, K0: 0},
		},
	},
	"gpe": {
		"ground": {
			Model: "gpe", Evolver: "split", Dt: 0.002, Steps: 5000,
			Normalize: true, ImaginaryTime: true, Interaction: 10,
			Grid:      GridConfig{N: 256, Length: 20},
			InitState: InitStateConfig{X0: 0, Sigma: 1, K0: 0},
		},
		"quench": {
			Model: "gpe", Evolver: "split", Dt: 0.001, Steps: 5000,
			Interaction: 10,
			Grid:        GridConfig{N: 256, Length: 20},
			InitState:   InitStateConfig{X0: 0, Sigma: 1, K0: 0},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
