// Package config loads run configuration from a YAML file, a .env file
// and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ChrisMcGann/FormKey/pkg/batch"
	"github.com/ChrisMcGann/FormKey/pkg/core"
	"github.com/ChrisMcGann/FormKey/pkg/filter"
	"github.com/ChrisMcGann/FormKey/pkg/limits"
)

// Environment variables
const (
	EnvConfig    = "FORMKEY_CONFIG"
	EnvMode      = "FORMKEY_MODE"
	EnvWorkers   = "FORMKEY_WORKERS"
	EnvCenters   = "FORMKEY_CENTERS"
	EnvHalfWidth = "FORMKEY_HALF_WIDTH"
)

// Config is the resolved configuration of a run
type Config struct {
	Batch     batch.Config
	Rules     filter.Rules
	Table     limits.Table
	Overrides limits.Overrides
}

// Default returns the built-in configuration. Mode is left unset.
func Default() *Config {
	return &Config{
		Batch: batch.Config{
			Centers:   append([]float64(nil), batch.DefaultCenters...),
			HalfWidth: batch.DefaultHalfWidth,
			Workers:   1,
			CacheSize: batch.DefaultCacheSize,
		},
		Rules: filter.DefaultRules(),
		Table: limits.DefaultTable(),
	}
}

type fileConfig struct {
	Mode      string        `yaml:"mode"`
	Centers   []float64     `yaml:"centers"`
	HalfWidth float64       `yaml:"half_width"`
	Workers   int           `yaml:"workers"`
	CacheSize *int          `yaml:"cache_size"`
	Rules     fileRules     `yaml:"rules"`
	Limits    *fileLimits   `yaml:"limits"`
	Overrides fileOverrides `yaml:"overrides"`
}

type fileRules struct {
	HCMin     *float64 `yaml:"hc_min"`
	HCMax     *float64 `yaml:"hc_max"`
	OCMax     *float64 `yaml:"oc_max"`
	NCMax     *float64 `yaml:"nc_max"`
	SCMax     *float64 `yaml:"sc_max"`
	HeteroMax *float64 `yaml:"hetero_max"`
}

type fileLimits struct {
	Positive []fileBand `yaml:"positive"`
	Negative []fileBand `yaml:"negative"`
}

type fileBand struct {
	Below float64 `yaml:"below"`
	MaxC  int     `yaml:"max_c"`
	MaxH  int     `yaml:"max_h"`
	MaxO  int     `yaml:"max_o"`
	MaxN  int     `yaml:"max_n"`
	MaxS  int     `yaml:"max_s"`
	MaxP  int     `yaml:"max_p"`
	MaxNa int     `yaml:"max_na"`
	MaxK  int     `yaml:"max_k"`
}

type fileOverrides struct {
	MaxC  *int `yaml:"max_c"`
	MaxH  *int `yaml:"max_h"`
	MaxO  *int `yaml:"max_o"`
	MaxN  *int `yaml:"max_n"`
	MaxS  *int `yaml:"max_s"`
	MaxP  *int `yaml:"max_p"`
	MaxNa *int `yaml:"max_na"`
	MaxK  *int `yaml:"max_k"`
}

// Load reads a YAML configuration file on top of the defaults. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of the defaults.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := Default()
	if fc.Mode != "" {
		mode, err := core.ParseMode(fc.Mode)
		if err != nil {
			return nil, err
		}
		cfg.Batch.Mode = mode
	}
	if len(fc.Centers) > 0 {
		cfg.Batch.Centers = fc.Centers
	}
	if fc.HalfWidth != 0 {
		cfg.Batch.HalfWidth = fc.HalfWidth
	}
	if fc.Workers != 0 {
		cfg.Batch.Workers = fc.Workers
	}
	if fc.CacheSize != nil {
		cfg.Batch.CacheSize = *fc.CacheSize
	}

	setFloat(&cfg.Rules.HCMin, fc.Rules.HCMin)
	setFloat(&cfg.Rules.HCMax, fc.Rules.HCMax)
	setFloat(&cfg.Rules.OCMax, fc.Rules.OCMax)
	setFloat(&cfg.Rules.NCMax, fc.Rules.NCMax)
	setFloat(&cfg.Rules.SCMax, fc.Rules.SCMax)
	setFloat(&cfg.Rules.HeteroMax, fc.Rules.HeteroMax)

	if fc.Limits != nil {
		if len(fc.Limits.Positive) > 0 {
			cfg.Table.Positive = toBands(fc.Limits.Positive)
		}
		if len(fc.Limits.Negative) > 0 {
			cfg.Table.Negative = toBands(fc.Limits.Negative)
		}
	}

	cfg.Overrides = limits.Overrides(fc.Overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func toBands(in []fileBand) []limits.Band {
	bands := make([]limits.Band, len(in))
	for i, b := range in {
		bands[i] = limits.Band{
			Below: b.Below,
			Bounds: limits.Bounds{
				MaxC: b.MaxC, MaxH: b.MaxH, MaxO: b.MaxO, MaxN: b.MaxN,
				MaxS: b.MaxS, MaxP: b.MaxP, MaxNa: b.MaxNa, MaxK: b.MaxK,
			},
		}
	}
	return bands
}

// Validate checks the configuration for values no run can use.
func (c *Config) Validate() error {
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	if c.Batch.HalfWidth <= 0 {
		return fmt.Errorf("half-width must be positive, got %g", c.Batch.HalfWidth)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Batch.Workers)
	}
	for _, mode := range []core.Mode{core.Positive, core.Negative} {
		for _, b := range c.Table.Bands(mode) {
			if b.Below <= 0 {
				return fmt.Errorf("%s band threshold must be positive, got %g", mode, b.Below)
			}
		}
	}
	return nil
}

// LoadEnv loads a .env file if present and returns the config path from
// the environment.
func LoadEnv() string {
	_ = godotenv.Load()
	return strings.TrimSpace(os.Getenv(EnvConfig))
}

// ApplyEnv overrides configuration from environment variables.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvMode)); v != "" {
		mode, err := core.ParseMode(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMode, err)
		}
		c.Batch.Mode = mode
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid worker count %q: %w", EnvWorkers, v, err)
		}
		c.Batch.Workers = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvHalfWidth)); v != "" {
		hw, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid half-width %q: %w", EnvHalfWidth, v, err)
		}
		c.Batch.HalfWidth = hw
	}
	if v := strings.TrimSpace(os.Getenv(EnvCenters)); v != "" {
		centers, err := ParseCenters(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCenters, err)
		}
		c.Batch.Centers = centers
	}
	return c.Validate()
}

// ParseCenters parses a comma-separated list of masses.
func ParseCenters(s string) ([]float64, error) {
	var centers []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid mass %q: %w", part, err)
		}
		centers = append(centers, v)
	}
	if len(centers) == 0 {
		return nil, fmt.Errorf("no masses in %q", s)
	}
	return centers, nil
}
