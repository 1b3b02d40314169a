package convert

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceGerber/pkg/dxf"
)

// DefaultMinDiameter is the smallest drill diameter, in mm, treated as a
// mounting hole when no limit is configured. Vias and component pin holes
// sit well below it.
const DefaultMinDiameter = 3.0

// Config collects everything the conversion pipeline needs beyond the
// input files themselves. Values come from an optional YAML file with CLI
// flags layered on top.
type Config struct {
	MinDiameter  float64  `yaml:"min_diameter_mm"`
	MaxDiameter  *float64 `yaml:"max_diameter_mm"`
	Output       string   `yaml:"output"`
	OutlineLayer string   `yaml:"outline_layer"`
	HolesLayer   string   `yaml:"holes_layer"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		MinDiameter:  DefaultMinDiameter,
		OutlineLayer: dxf.DefaultOutlineLayer,
		HolesLayer:   dxf.DefaultHolesLayer,
	}
}

// LoadConfig reads a YAML config file over the defaults. Fields absent
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects diameter bands that cannot match anything.
func (c *Config) Validate() error {
	if c.MinDiameter < 0 {
		return fmt.Errorf("minimum diameter must be >= 0, got %g", c.MinDiameter)
	}
	if c.MaxDiameter != nil && *c.MaxDiameter < c.MinDiameter {
		return fmt.Errorf("maximum diameter %g is below minimum %g", *c.MaxDiameter, c.MinDiameter)
	}
	if c.OutlineLayer == "" || c.HolesLayer == "" {
		return fmt.Errorf("layer names must not be empty")
	}
	return nil
}
