package config

// Presets are named parameter sets per case: "full" matches the
// published benchmark settings, "smoke" is a coarse short run for quick
// checks.
var Presets = map[string]map[string]*Config{
	"diffusion2d": {
		"full": {
			Case: "diffusion2d", Dx: 0.005, EndTime: 20.0, Parallel: true,
		},
		"smoke": {
			Case: "diffusion2d", Dx: 0.02, EndTime: 0.5, Parallel: false,
		},
	},
	"floating2d": {
		"full": {
			Case: "floating2d", Dx: 0.05, EndTime: 10.0, Parallel: true,
		},
		"smoke": {
			Case: "floating2d", Dx: 0.1, EndTime: 0.2, Parallel: false,
		},
	},
	"dambreak3d": {
		"full": {
			Case: "dambreak3d", Dx: 0.05, EndTime: 20.0, Parallel: true,
		},
		"smoke": {
			Case: "dambreak3d", Dx: 0.125, EndTime: 0.5, Parallel: false,
		},
	},
}

func GetPreset(caseName, preset string) *Config {
	casePresets, ok := Presets[caseName]
	if !ok {
		return nil
	}
	cfg, ok := casePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(caseName string) []string {
	casePresets, ok := Presets[caseName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(casePresets))
	for name := range casePresets {
		names = append(names, name)
	}
	return names
}
