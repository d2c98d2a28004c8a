package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCase    = "dambreak3d"
	DefaultDataDir = "data"
)

// Config is the yaml-loadable run configuration. Zero values for Dx and
// EndTime mean "use the case defaults"; CLI flags override file values.
type Config struct {
	Case                   string  `yaml:"case"`
	Dx                     float64 `yaml:"dx"`
	EndTime                float64 `yaml:"end_time"`
	Parallel               bool    `yaml:"parallel"`
	DataDir                string  `yaml:"data_dir"`
	GenerateRegressionData bool    `yaml:"generate_regression_data"`
	RestartStep            int     `yaml:"restart_step"`
	Snapshots              int     `yaml:"snapshots"` // state outputs per run
}

func DefaultConfig() *Config {
	return &Config{
		Case:      DefaultCase,
		Parallel:  true,
		DataDir:   DefaultDataDir,
		Snapshots: 100,
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
