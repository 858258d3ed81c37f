// Package sim turns a scenario into a running world.
package sim

import (
	"context"
	"fmt"

	"github.com/zeusync/curvemotion/internal/config"
	"github.com/zeusync/curvemotion/internal/core/agent"
	"github.com/zeusync/curvemotion/internal/core/curve"
	"github.com/zeusync/curvemotion/internal/core/events/bus"
	"github.com/zeusync/curvemotion/internal/core/input"
	"github.com/zeusync/curvemotion/internal/core/observability/log"
	"github.com/zeusync/curvemotion/internal/core/system"
	"github.com/zeusync/curvemotion/internal/core/systems/physics"
)

type Simulation struct {
	World    *system.World
	Scenario *config.Scenario

	schedules map[*agent.Agent]input.Schedule
	logger    log.Log
}

// Build registers the scenario curves, spawns its agents and returns a
// simulation ready to run. The scenario must already be validated.
func Build(s *config.Scenario, logger log.Log, eventBus bus.EventBus) (*Simulation, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if eventBus == nil {
		eventBus = bus.New()
	}

	lib := curve.NewLibrary()
	for name, doc := range s.Curves {
		doc.Name = name
		c, err := doc.Build()
		if err != nil {
			return nil, fmt.Errorf("curve %q: %w", name, err)
		}
		lib.Register(name, c)
	}

	world := system.NewWorld(
		system.WithCurves(lib),
		system.WithBus(eventBus),
		system.WithLogger(logger),
		system.WithWorkers(s.Workers),
	)

	var ground agent.Ground
	if s.Ground != nil {
		ground = agent.FlatGround{Height: s.Ground.Height}
	}

	sim := &Simulation{
		World:     world,
		Scenario:  s,
		schedules: make(map[*agent.Agent]input.Schedule, len(s.Agents)),
		logger:    logger,
	}
	for _, ac := range s.Agents {
		cfg, err := s.AgentController(ac)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", ac.Name, err)
		}
		// leave the interface nil when a curve is not assigned
		if c, ok := lib.Get(ac.AccelerationCurve); ok {
			cfg.AccelerationCurve = c
		}
		if c, ok := lib.Get(ac.DecelerationCurve); ok {
			cfg.DecelerationCurve = c
		}

		opts := []agent.Option{
			agent.WithPosition(ac.Position),
			agent.WithBus(eventBus),
			agent.WithLogger(logger),
		}
		if ac.Forward != physics.Zero {
			opts = append(opts, agent.WithForward(ac.Forward))
		}
		a, err := agent.New(ac.Name, cfg, opts...)
		if err != nil {
			return nil, err
		}
		if ground != nil && !a.Spawn(ground) {
			logger.Warn("no ground below agent", log.String("agent", ac.Name))
		}
		if err = world.AddAgent(a); err != nil {
			return nil, err
		}
		sim.schedules[a] = ac.Input.Sorted()
	}
	return sim, nil
}

// Run replays every agent's input schedule for the scenario's step count.
// after is called with each frame and may be nil.
func (s *Simulation) Run(ctx context.Context, after func(system.Frame) error) error {
	return s.World.Run(ctx, system.RunOptions{
		DeltaTime: s.Scenario.DeltaTime,
		Steps:     s.Scenario.Steps,
		BeforeStep: func(t float64) error {
			for a, sched := range s.schedules {
				sched.Apply(a.Axis(), t)
			}
			return nil
		},
		AfterStep: after,
	})
}
