// Package config loads batch plotting jobs.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Modes of a plot job.
const (
	ModePoint = "point"
	ModeRange = "range"
)

// Defaults for jobs that leave fields unset.
const (
	DefaultExpr  = "x^2 - 3*x + 2"
	DefaultStart = 0.0
	DefaultEnd   = 1.0
	DefaultCount = 10
)

// Config is a batch of plot jobs.
type Config struct {
	// Workers is the number of goroutines each range job may use.
	Workers int    `yaml:"workers"`
	Plots   []Plot `yaml:"plots"`
}

// Plot is one expression to evaluate at a point or over a range.
type Plot struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
	Mode string `yaml:"mode"`

	// X is the point for point mode.
	X float64 `yaml:"x"`

	// Start, End, and Count describe the range for range mode. Pointers
	// distinguish unset fields from zero.
	Start *float64 `yaml:"start"`
	End   *float64 `yaml:"end"`
	Count *int     `yaml:"count"`
}

// Range returns the plot's range with defaults applied.
func (p Plot) Range() (start, end float64, count int) {
	start, end, count = DefaultStart, DefaultEnd, DefaultCount
	if p.Start != nil {
		start = *p.Start
	}
	if p.End != nil {
		end = *p.End
	}
	if p.Count != nil {
		count = *p.Count
	}
	return start, end, count
}

// Load reads a config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes a config, applies defaults, and validates it. Unknown fields
// are errors.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Workers == 0 {
		c.Workers = 1
	}
	for i := range c.Plots {
		p := &c.Plots[i]
		if p.Mode == "" {
			p.Mode = ModeRange
		}
	}
}

// Validate checks the config for errors that would fail every run.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if len(c.Plots) == 0 {
		return errors.New("no plots")
	}
	seen := make(map[string]bool, len(c.Plots))
	for i, p := range c.Plots {
		if p.Name == "" {
			return errors.Errorf("plot %d: missing name", i)
		}
		if seen[p.Name] {
			return errors.Errorf("plot %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		if strings.TrimSpace(p.Expr) == "" {
			return errors.Errorf("plot %q: missing expr", p.Name)
		}
		switch p.Mode {
		case ModePoint:
		case ModeRange:
			if _, _, count := p.Range(); count < 1 {
				return errors.Errorf("plot %q: count must be positive, got %d", p.Name, count)
			}
		default:
			return errors.Errorf("plot %q: unknown mode %q", p.Name, p.Mode)
		}
	}
	return nil
}
