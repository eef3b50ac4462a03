package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/synodic/internal/analysis"
	"github.com/san-kum/synodic/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntegrator  = "yoshida4"
	DefaultCentralMass = 1.989e30
	DefaultDt          = physics.SecondsPerDay
	DefaultYears       = 500.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Integrator  string              `yaml:"integrator"`
	Gravity     float64             `yaml:"gravity"`
	CentralMass float64             `yaml:"central_mass"`
	Dt          float64             `yaml:"dt"`
	Years       float64             `yaml:"years"`
	Reference   int                 `yaml:"reference"`
	Bodies      []BodyConfig        `yaml:"bodies"`
	Detector    analysis.Thresholds `yaml:"detector"`
}

// BodyConfig places a body on a circular orbit. Angle is in degrees from the
// +x axis.
type BodyConfig struct {
	Name   string  `yaml:"name"`
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
	Angle  float64 `yaml:"angle"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:  DefaultIntegrator,
		Gravity:     physics.GravitationalConstant,
		CentralMass: DefaultCentralMass,
		Dt:          DefaultDt,
		Years:       DefaultYears,
		Bodies: []BodyConfig{
			{Name: "earth", Mass: 5.972e24, Radius: 1.5e11, Angle: 0},
			{Name: "mars", Mass: 6.39e23, Radius: 2.28e11, Angle: 51.7},
		},
		Detector: analysis.DefaultThresholds(),
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}

// Steps is the number of stored states for the configured duration.
func (c *Config) Steps() int {
	return physics.YearsToSteps(c.Years, c.Dt)
}

func (c *Config) Constants() physics.Constants {
	return physics.Constants{G: c.Gravity}
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Integrator != "", "integrator is empty")
	check(c.Gravity > 0, "gravity must be positive, got %g", c.Gravity)
	check(c.CentralMass > 0, "central_mass must be positive, got %g", c.CentralMass)
	check(c.Dt > 0, "dt must be positive, got %g", c.Dt)
	check(c.Years > 0, "years must be positive, got %g", c.Years)
	check(len(c.Bodies) == 2, "need exactly 2 bodies, got %d", len(c.Bodies))
	check(c.Reference >= 0 && c.Reference < len(c.Bodies), "reference body %d out of range", c.Reference)

	for i, b := range c.Bodies {
		check(b.Mass >= 0, "body %d: mass must not be negative, got %g", i, b.Mass)
		check(b.Radius > 0, "body %d: radius must be positive, got %g", i, b.Radius)
	}
	if len(c.Bodies) == 2 {
		a, b := c.Bodies[0], c.Bodies[1]
		check(a.Radius != b.Radius || a.Angle != b.Angle, "bodies start at the same position")
	}

	th := c.Detector
	check(th.PeakHeightRatio > 0 && th.PeakHeightRatio <= 1, "detector.peak_height_ratio must be in (0, 1], got %g", th.PeakHeightRatio)
	check(th.ValleyDepthRatio > 0 && th.ValleyDepthRatio <= 1, "detector.valley_depth_ratio must be in (0, 1], got %g", th.ValleyDepthRatio)
	check(th.MatchTolerance > 0, "detector.match_tolerance must be positive, got %g", th.MatchTolerance)
	check(th.EarlySkipPeriodRatio >= 0, "detector.early_skip_period_ratio must not be negative")
	check(th.EarlySkipAmplitudeRatio >= 0, "detector.early_skip_amplitude_ratio must not be negative")
	check(th.PeakAnchorRatio >= 0, "detector.peak_anchor_ratio must not be negative")

	return errors.Join(errs...)
}
