// Package motion integrates longitudinal velocity by following authored
// acceleration and deceleration curves instead of fixed rates.
package motion

import (
	"fmt"
	"math"

	"github.com/zeusync/curvemotion/internal/core/curve"
	"github.com/zeusync/curvemotion/internal/core/observability/log"
	"github.com/zeusync/curvemotion/internal/core/systems/physics"
)

const (
	DefaultMaxVelocity             = 100.0
	DefaultVelocityChangeThreshold = 0.1
)

// Config is the static tuning of a controller. A nil curve leaves the
// controller inert.
type Config struct {
	MaxVelocity             float64
	VelocityChangeThreshold float64
	MaxSamples              int
	AccelerationCurve       curve.Curve
	DecelerationCurve       curve.Curve
}

func DefaultConfig() Config {
	return Config{
		MaxVelocity:             DefaultMaxVelocity,
		VelocityChangeThreshold: DefaultVelocityChangeThreshold,
		MaxSamples:              curve.DefaultMaxSamples,
	}
}

func (c Config) Validate() error {
	if !(c.MaxVelocity > 0) {
		return fmt.Errorf("%w: %g", ErrInvalidMaxVelocity, c.MaxVelocity)
	}
	if c.VelocityChangeThreshold < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidThreshold, c.VelocityChangeThreshold)
	}
	return nil
}

// StepInput is what the host measures before each step.
type StepInput struct {
	DeltaTime       float64
	Input           float64
	CurrentVelocity physics.Vec3
	Forward         physics.Vec3
}

// StepOutput is the signed speed along Forward for this step.
type StepOutput struct {
	Velocity       float64
	Ratio          float64
	WantedVelocity float64
	State          AccelerationState
	Changed        bool
	Inert          bool
}

type Option func(*Controller)

func WithLogger(l log.Log) Option {
	return func(c *Controller) { c.logger = l }
}

// WithObserver registers fn to be called after every regime change.
func WithObserver(fn func(Transition)) Option {
	return func(c *Controller) { c.observers = append(c.observers, fn) }
}

// Controller is the velocity state machine of a single agent. It is not safe
// for concurrent steps; curves may be shared between controllers.
type Controller struct {
	cfg       Config
	logger    log.Log
	observers []func(Transition)

	state    AccelerationState
	regime   Regime
	input    float64
	ratio    float64
	velocity float64
}

func NewController(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = curve.DefaultMaxSamples
	}
	c := &Controller{cfg: cfg, logger: log.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Controller) Config() Config           { return c.cfg }
func (c *Controller) State() AccelerationState { return c.state }
func (c *Controller) Regime() Regime           { return c.regime }
func (c *Controller) Velocity() float64        { return c.velocity }

// Inert reports whether a curve is missing. Inert controllers ignore Step.
func (c *Controller) Inert() bool {
	return c.cfg.AccelerationCurve == nil || c.cfg.DecelerationCurve == nil
}

// Reset returns the controller to rest without touching its config.
func (c *Controller) Reset() {
	c.state = StateStable
	c.regime = Regime{}
	c.input, c.ratio, c.velocity = 0, 0, 0
}

// Step decides the regime from the instantaneous measurements and returns the
// next signed velocity. The regime is recomputed every step; the threshold is
// the only hysteresis.
func (c *Controller) Step(in StepInput) StepOutput {
	if c.Inert() {
		return StepOutput{Velocity: c.velocity, Ratio: c.ratio, State: c.state, Inert: true}
	}

	maxVelocity := c.cfg.MaxVelocity
	threshold := c.cfg.VelocityChangeThreshold
	c.input = in.Input

	wantedVelocity := math.Abs(in.Input) * maxVelocity
	currentVelocity := in.CurrentVelocity.Length()
	currentRatio := physics.Clamp(currentVelocity/maxVelocity, 0, 1)

	wantedVelocityVector := in.Forward.Scale(in.Input * maxVelocity)
	velocityDiff := wantedVelocity - currentVelocity
	changingDirection := in.CurrentVelocity.Dot(wantedVelocityVector) < 0

	previous := c.state
	switch {
	case velocityDiff < -threshold || changingDirection:
		// stop fully before reversing
		if changingDirection {
			wantedVelocity = 0
		}
		c.enter(StateDecelerating, c.cfg.DecelerationCurve, currentRatio)
	case physics.NearlyZero(velocityDiff, threshold):
		c.state = StateStable
	default:
		c.enter(StateAccelerating, c.cfg.AccelerationCurve, currentRatio)
	}

	var ratio, velocity float64
	if c.state == StateStable {
		ratio = in.Input
		velocity = in.Input * maxVelocity
	} else {
		c.regime.Parameter += in.DeltaTime
		ratio = c.regime.Curve.Sample(c.regime.Parameter)
		velocity = ratio * maxVelocity

		overshoot := (c.state == StateAccelerating && velocity > wantedVelocity) ||
			(c.state == StateDecelerating && velocity < wantedVelocity)
		if overshoot {
			velocity = wantedVelocity
			c.regime.Parameter = c.mustFind(c.regime.Curve, math.Abs(in.Input))
		}

		sign := physics.Sign(in.Forward.Dot(in.CurrentVelocity))
		if sign == 0 {
			sign = physics.Sign(in.Input)
		}
		velocity *= sign
	}

	c.ratio = ratio
	c.velocity = velocity

	out := StepOutput{
		Velocity:       velocity,
		Ratio:          ratio,
		WantedVelocity: wantedVelocity,
		State:          c.state,
		Changed:        previous != c.state,
	}
	if out.Changed {
		c.notify(Transition{From: previous, To: c.state, Velocity: velocity, Parameter: c.regime.Parameter})
	}
	return out
}

// enter selects the curve for state and re-seeds the parameter from the
// agent's actual speed ratio.
func (c *Controller) enter(state AccelerationState, crv curve.Curve, ratio float64) {
	c.state = state
	c.regime = Regime{Curve: crv}
	c.regime.Parameter = c.mustFind(crv, ratio)
}

func (c *Controller) mustFind(crv curve.Curve, value float64) float64 {
	t, ok := curve.FindParameterForValue(crv, value, c.cfg.MaxSamples)
	if !ok {
		err := &LookupError{State: c.state, Curve: curveName(crv), Value: value, Err: curve.ErrValueNotFound}
		c.logger.Error("curve inverse lookup failed",
			log.String("state", c.state.String()),
			log.String("curve", err.Curve),
			log.Float64("value", value),
		)
		panic(err)
	}
	return t
}

func (c *Controller) notify(tr Transition) {
	c.logger.Debug("acceleration state changed",
		log.String("from", tr.From.String()),
		log.String("to", tr.To.String()),
		log.Float64("velocity", tr.Velocity),
		log.Float64("parameter", tr.Parameter),
	)
	for _, fn := range c.observers {
		fn(tr)
	}
}
