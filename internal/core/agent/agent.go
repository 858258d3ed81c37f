// Package agent is the host side of a curve driven mover: it owns the
// position, measures velocity, reads the input axis and applies the
// controller's output along the forward axis.
package agent

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/curvemotion/internal/core/events/bus"
	"github.com/zeusync/curvemotion/internal/core/input"
	"github.com/zeusync/curvemotion/internal/core/motion"
	"github.com/zeusync/curvemotion/internal/core/observability/log"
	"github.com/zeusync/curvemotion/internal/core/systems/physics"
)

// EventRegimeChanged is published on the bus whenever an agent's controller
// switches acceleration state.
const EventRegimeChanged = "motion.regime.changed"

// RegimeChanged is the payload of EventRegimeChanged.
type RegimeChanged struct {
	AgentID  string
	Name     string
	From     motion.AccelerationState
	To       motion.AccelerationState
	Velocity float64
}

type Option func(*Agent)

func WithPosition(p physics.Vec3) Option { return func(a *Agent) { a.position = p } }

// WithForward sets the facing direction. It is normalized; a zero vector keeps +X.
func WithForward(f physics.Vec3) Option {
	return func(a *Agent) {
		if n := f.Normalize(); n != physics.Zero {
			a.forward = n
		}
	}
}

func WithAxis(axis *input.Axis) Option { return func(a *Agent) { a.axis = axis } }
func WithBus(b bus.EventBus) Option    { return func(a *Agent) { a.bus = b } }
func WithLogger(l log.Log) Option      { return func(a *Agent) { a.logger = l } }

type Agent struct {
	id       uuid.UUID
	name     string
	position physics.Vec3
	forward  physics.Vec3
	velocity physics.Vec3

	controller *motion.Controller
	axis       *input.Axis
	bus        bus.EventBus
	logger     log.Log
}

// New builds an agent and its controller from cfg.
func New(name string, cfg motion.Config, opts ...Option) (*Agent, error) {
	a := &Agent{
		id:      uuid.New(),
		name:    name,
		forward: physics.Forward,
		axis:    input.NewAxis(0),
		logger:  log.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(log.String("agent", name), log.String("agent_id", a.id.String()))

	ctrl, err := motion.NewController(cfg, motion.WithLogger(a.logger), motion.WithObserver(a.onTransition))
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}
	a.controller = ctrl
	if ctrl.Inert() {
		a.logger.Warn("agent has no acceleration or deceleration curve, motion disabled")
	}
	return a, nil
}

func (a *Agent) ID() string                     { return a.id.String() }
func (a *Agent) Name() string                   { return a.name }
func (a *Agent) Position() physics.Vec3         { return a.position }
func (a *Agent) Forward() physics.Vec3          { return a.forward }
func (a *Agent) Velocity() physics.Vec3         { return a.velocity }
func (a *Agent) Axis() *input.Axis              { return a.axis }
func (a *Agent) Controller() *motion.Controller { return a.controller }

// Spawn drops the agent onto ground with one downward trace. It reports
// whether a surface was found; otherwise the agent stays where it is.
func (a *Agent) Spawn(ground Ground) bool {
	if ground == nil {
		return false
	}
	hit, ok := ground.Trace(a.position, a.position.Add(physics.Down.Scale(SpawnTraceDistance)))
	if ok {
		a.position = hit
	}
	return ok
}

// Tick runs one controller step and moves the agent by velocity*dt along its
// forward axis. Measured velocity is the displacement over dt.
func (a *Agent) Tick(dt float64) motion.StepOutput {
	out := a.controller.Step(motion.StepInput{
		DeltaTime:       dt,
		Input:           a.axis.Value(),
		CurrentVelocity: a.velocity,
		Forward:         a.forward,
	})
	if out.Inert {
		return out
	}

	previous := a.position
	a.position = a.position.Add(a.forward.Scale(out.Velocity * dt))
	if dt > 0 {
		a.velocity = a.position.Sub(previous).Scale(1 / dt)
	}
	return out
}

// Snapshot is the per-agent debug view.
type Snapshot struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Position physics.Vec3 `json:"position"`
	motion.Snapshot
}

func (a *Agent) Snapshot() Snapshot {
	return Snapshot{
		ID:       a.ID(),
		Name:     a.name,
		Position: a.position,
		Snapshot: a.controller.Snapshot(),
	}
}

func (a *Agent) onTransition(tr motion.Transition) {
	if a.bus == nil {
		return
	}
	ev := bus.NewEvent(EventRegimeChanged, a.ID(), RegimeChanged{
		AgentID:  a.ID(),
		Name:     a.name,
		From:     tr.From,
		To:       tr.To,
		Velocity: tr.Velocity,
	})
	if err := a.bus.Publish(ev); err != nil {
		a.logger.Warn("regime change handler failed", log.Error(err))
	}
}
