package heat

import (
	"fmt"
	"os"

	apperrors "github.com/csdms/bmi-bridge/internal/platform/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the heat model parameters read at initialization.
type Config struct {
	Shape              []int64   `yaml:"shape"`               // grid dimensions [ny, nx]
	Spacing            []float64 `yaml:"spacing"`             // node spacing [dy, dx]
	Alpha              float64   `yaml:"alpha"`               // thermal diffusivity
	TimeStep           float64   `yaml:"time_step"`           // seconds per update
	EndTime            float64   `yaml:"end_time"`            // simulation end, seconds
	InitialTemperature float64   `yaml:"initial_temperature"` // uniform initial field
}

// LoadConfig reads and validates the YAML configuration at path. All errors
// carry the config-invalid code so a failed initialize is retryable.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.CodeConfigInvalid,
			fmt.Sprintf("read config %s: %v", path, err), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperrors.Wrap(apperrors.CodeConfigInvalid,
			fmt.Sprintf("parse config %s: %v", path, err), err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Shape) != 2 || c.Shape[0] < 3 || c.Shape[1] < 3 {
		return apperrors.New(apperrors.CodeConfigInvalid, "shape must be [ny, nx] with both at least 3")
	}
	if len(c.Spacing) != 2 || c.Spacing[0] <= 0 || c.Spacing[1] <= 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, "spacing must be [dy, dx] with positive values")
	}
	if c.Alpha <= 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, "alpha must be positive")
	}
	if c.TimeStep <= 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, "time_step must be positive")
	}
	if c.EndTime <= 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, "end_time must be positive")
	}
	return nil
}
