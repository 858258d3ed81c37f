// Package config describes a simulation scenario: controller tuning, named
// curve assets, agents and their recorded input.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/curvemotion/internal/core/curve"
	"github.com/zeusync/curvemotion/internal/core/input"
	"github.com/zeusync/curvemotion/internal/core/motion"
	"github.com/zeusync/curvemotion/internal/core/systems/physics"
)

var ErrInvalidConfig = errors.New("invalid scenario configuration")

const (
	DefaultDeltaTime = 1.0 / 60.0
	DefaultSteps     = 600
)

type Scenario struct {
	LogLevel   string                    `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	DeltaTime  float64                   `json:"delta_time" yaml:"delta_time"`
	Steps      int                       `json:"steps" yaml:"steps"`
	Workers    int                       `json:"workers,omitempty" yaml:"workers,omitempty"`
	Controller ControllerConfig          `json:"controller" yaml:"controller"`
	Curves     map[string]curve.Document `json:"curves" yaml:"curves"`
	Ground     *GroundConfig             `json:"ground,omitempty" yaml:"ground,omitempty"`
	Agents     []AgentConfig             `json:"agents" yaml:"agents"`
	Telemetry  TelemetryConfig           `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// ControllerConfig mirrors motion.Config without the curve handles. Zero
// fields take the defaults; the threshold is a pointer because 0 is valid.
type ControllerConfig struct {
	MaxVelocity             float64  `json:"max_velocity,omitempty" yaml:"max_velocity,omitempty"`
	VelocityChangeThreshold *float64 `json:"velocity_change_threshold,omitempty" yaml:"velocity_change_threshold,omitempty"`
	MaxSamples              int      `json:"max_samples,omitempty" yaml:"max_samples,omitempty"`
}

type GroundConfig struct {
	Height float64 `json:"height" yaml:"height"`
}

type AgentConfig struct {
	Name              string            `json:"name" yaml:"name"`
	AccelerationCurve string            `json:"acceleration_curve,omitempty" yaml:"acceleration_curve,omitempty"`
	DecelerationCurve string            `json:"deceleration_curve,omitempty" yaml:"deceleration_curve,omitempty"`
	Position          physics.Vec3      `json:"position,omitempty" yaml:"position,omitempty"`
	Forward           physics.Vec3      `json:"forward,omitempty" yaml:"forward,omitempty"`
	Controller        *ControllerConfig `json:"controller,omitempty" yaml:"controller,omitempty"`
	Input             input.Schedule    `json:"input,omitempty" yaml:"input,omitempty"`
}

type TelemetryConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// LoadJSON loads a scenario from a JSON reader.
func LoadJSON(r io.Reader) (*Scenario, error) {
	var s Scenario
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadYAML loads a scenario from a YAML reader.
func LoadYAML(r io.Reader) (*Scenario, error) {
	var s Scenario
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile picks the decoder from the extension, applies defaults and validates.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s *Scenario
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		s, err = LoadJSON(f)
	default:
		s, err = LoadYAML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	s.ApplyDefaults()
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) ApplyDefaults() {
	if s.DeltaTime == 0 {
		s.DeltaTime = DefaultDeltaTime
	}
	if s.Steps == 0 {
		s.Steps = DefaultSteps
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

// Validate checks the scenario and every curve asset it names.
func (s *Scenario) Validate() error {
	if !(s.DeltaTime > 0) {
		return fmt.Errorf("%w: delta_time must be positive", ErrInvalidConfig)
	}
	if s.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative", ErrInvalidConfig)
	}
	for name, doc := range s.Curves {
		if _, err := doc.Build(); err != nil {
			return fmt.Errorf("%w: curve %q: %w", ErrInvalidConfig, name, err)
		}
	}
	if _, err := s.Controller.Resolve(motion.DefaultConfig()); err != nil {
		return fmt.Errorf("%w: controller: %w", ErrInvalidConfig, err)
	}

	seen := make(map[string]struct{}, len(s.Agents))
	for i, a := range s.Agents {
		if a.Name == "" {
			return fmt.Errorf("%w: agent %d has no name", ErrInvalidConfig, i)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("%w: duplicate agent %q", ErrInvalidConfig, a.Name)
		}
		seen[a.Name] = struct{}{}

		for _, ref := range []string{a.AccelerationCurve, a.DecelerationCurve} {
			if ref == "" {
				continue
			}
			if _, ok := s.Curves[ref]; !ok {
				return fmt.Errorf("%w: agent %q: %w: %q", ErrInvalidConfig, a.Name, curve.ErrCurveNotFound, ref)
			}
		}
		if _, err := s.AgentController(a); err != nil {
			return fmt.Errorf("%w: agent %q: %w", ErrInvalidConfig, a.Name, err)
		}
		for j, smp := range a.Input {
			if smp.Value < -1 || smp.Value > 1 {
				return fmt.Errorf("%w: agent %q input %d outside [-1, 1]", ErrInvalidConfig, a.Name, j)
			}
		}
	}
	return nil
}

// Resolve overlays c on base and validates the result. Curves are untouched.
func (c ControllerConfig) Resolve(base motion.Config) (motion.Config, error) {
	if c.MaxVelocity != 0 {
		base.MaxVelocity = c.MaxVelocity
	}
	if c.VelocityChangeThreshold != nil {
		base.VelocityChangeThreshold = *c.VelocityChangeThreshold
	}
	if c.MaxSamples != 0 {
		base.MaxSamples = c.MaxSamples
	}
	if base.MaxSamples < 0 {
		return base, errors.New("max_samples must not be negative")
	}
	return base, base.Validate()
}

// AgentController resolves the scenario controller and the agent override.
func (s *Scenario) AgentController(a AgentConfig) (motion.Config, error) {
	cfg, err := s.Controller.Resolve(motion.DefaultConfig())
	if err != nil {
		return cfg, err
	}
	if a.Controller != nil {
		return a.Controller.Resolve(cfg)
	}
	return cfg, nil
}
