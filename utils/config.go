package utils

import (
	_ "embed"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the configuration for a simulation session
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Loop      LoopConfig      `yaml:"loop"`
	Compute   ComputeConfig   `yaml:"compute"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
	View      ViewConfig      `yaml:"view"`
}

// GridConfig sizes and seeds the board
type GridConfig struct {
	Rows          int     `yaml:"rows"`
	Cols          int     `yaml:"cols"`
	RandomDensity float64 `yaml:"random_density"`
	Seed          int64   `yaml:"seed"` // 0 = time based
	Pattern       string  `yaml:"pattern"`
}

// LoopConfig controls stepping cadence
type LoopConfig struct {
	Interval       time.Duration `yaml:"interval"`   // logical time between generations
	FrameRate      time.Duration `yaml:"frame_rate"` // headless frame period
	MaxGenerations int           `yaml:"max_generations"`
}

// ComputeConfig selects the step strategy
type ComputeConfig struct {
	Mode     string `yaml:"mode"` // worker or inline
	Parallel bool   `yaml:"parallel"`
	Workers  int    `yaml:"workers"` // 0 = one per CPU
}

// TelemetryConfig controls step timing samples
type TelemetryConfig struct {
	BatchSize int     `yaml:"batch_size"`
	EWMAAlpha float64 `yaml:"ewma_alpha"`
	PerfCSV   string  `yaml:"perf_csv"`
}

// LoggingConfig controls the slog handler
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// ViewConfig controls the graphical frontend
type ViewConfig struct {
	Scale int `yaml:"scale"`
}

// DefaultConfig returns the embedded defaults
func DefaultConfig() Config {
	var config Config
	if err := yaml.Unmarshal(defaultsYAML, &config); err != nil {
		panic(errors.Wrap(err, "[DefaultConfig] embedded defaults are invalid"))
	}
	return config
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// An empty filename returns the defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	// only fields present in the file are overwritten
	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid configuration in file: %+v", filename)
	}
	return config, nil
}

// Validate rejects values the simulation cannot run with
func (c Config) Validate() error {
	switch {
	case c.Grid.Rows <= 0 || c.Grid.Cols <= 0:
		return errors.Errorf("grid dimensions must be positive, got %dx%d", c.Grid.Rows, c.Grid.Cols)
	case c.Grid.RandomDensity < 0 || c.Grid.RandomDensity > 1:
		return errors.Errorf("random_density must be within [0,1], got %v", c.Grid.RandomDensity)
	case c.Loop.Interval <= 0:
		return errors.Errorf("loop interval must be positive, got %v", c.Loop.Interval)
	case c.Loop.FrameRate <= 0:
		return errors.Errorf("frame_rate must be positive, got %v", c.Loop.FrameRate)
	case c.Compute.Mode != "worker" && c.Compute.Mode != "inline":
		return errors.Errorf("compute mode must be worker or inline, got %q", c.Compute.Mode)
	case c.Telemetry.BatchSize <= 0:
		return errors.Errorf("telemetry batch_size must be positive, got %d", c.Telemetry.BatchSize)
	case c.Telemetry.EWMAAlpha <= 0 || c.Telemetry.EWMAAlpha > 1:
		return errors.Errorf("ewma_alpha must be within (0,1], got %v", c.Telemetry.EWMAAlpha)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file
func (c Config) WriteYAML(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "[WriteYAML] failed to marshal config")
	}
	if err = os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "[WriteYAML] failed to write file: %+v", filename)
	}
	return nil
}
