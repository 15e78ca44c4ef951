// Package config loads gmtu settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/pmtu"
	"github.com/hervehildenbrand/gmtu/internal/probe"
	"gopkg.in/yaml.v3"
)

// DefaultTarget is probed when no target is given.
const DefaultTarget = "8.8.8.8"

// Markers overrides the text fragments used to classify probe output.
type Markers struct {
	Delivery      []string `yaml:"delivery"`
	Fragmentation []string `yaml:"fragmentation"`
}

// Config holds every setting that can come from the config file.
type Config struct {
	Target    string        `yaml:"target"`
	Interface string        `yaml:"interface"`
	Floor     int           `yaml:"floor"`
	Ceiling   int           `yaml:"ceiling"`
	Overhead  int           `yaml:"overhead"`
	Timeout   time.Duration `yaml:"timeout"`
	Mechanism string        `yaml:"mechanism"`
	Markers   Markers       `yaml:"markers"`
	Output    string        `yaml:"output"`
	Format    string        `yaml:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Target:    DefaultTarget,
		Floor:     pmtu.DefaultFloor,
		Ceiling:   pmtu.DefaultCeiling,
		Overhead:  pmtu.HeaderOverhead,
		Timeout:   2 * time.Second,
		Mechanism: string(probe.KindCommand),
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	fh, err := os.Open(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer fh.Close()

	cfg, err := LoadReader(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadReader decodes YAML from r over the defaults.
func LoadReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Target == "" {
		return errors.New("target must not be empty")
	}

	if c.Floor < 0 {
		return fmt.Errorf("floor must not be negative, got %d", c.Floor)
	}

	if c.Ceiling < c.Floor {
		return fmt.Errorf("ceiling %d is below floor %d", c.Ceiling, c.Floor)
	}

	if c.Overhead < 0 {
		return fmt.Errorf("overhead must not be negative, got %d", c.Overhead)
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	switch probe.Kind(c.Mechanism) {
	case probe.KindCommand, probe.KindSocket:
	default:
		return fmt.Errorf("invalid mechanism %q: must be command or socket", c.Mechanism)
	}

	switch c.Format {
	case "", "json", "csv", "txt", "text":
	default:
		return fmt.Errorf("invalid format %q: must be json, csv, or txt", c.Format)
	}

	return nil
}

// Classifier builds the classifier for the configured markers.
func (c *Config) Classifier() *pmtu.Classifier {
	return pmtu.NewClassifier(c.Markers.Delivery, c.Markers.Fragmentation)
}

// ProbeConfig returns the mechanism configuration.
func (c *Config) ProbeConfig() *probe.Config {
	pc := probe.DefaultConfig()
	pc.Kind = probe.Kind(c.Mechanism)
	pc.Timeout = c.Timeout
	return pc
}
