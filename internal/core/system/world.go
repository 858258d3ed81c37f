// Package system owns the set of simulated agents and advances them on a
// fixed tick.
package system

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/curvemotion/internal/core/agent"
	"github.com/zeusync/curvemotion/internal/core/curve"
	"github.com/zeusync/curvemotion/internal/core/events/bus"
	"github.com/zeusync/curvemotion/internal/core/observability/log"
)

var (
	ErrDuplicateAgent   = errors.New("agent already in world")
	ErrInvalidDeltaTime = errors.New("delta time must not be negative")
)

type Option func(*World)

func WithCurves(l *curve.Library) Option { return func(w *World) { w.curves = l } }
func WithBus(b bus.EventBus) Option      { return func(w *World) { w.bus = b } }
func WithLogger(l log.Log) Option        { return func(w *World) { w.logger = l } }

// WithWorkers bounds how many agents tick at once. Zero means GOMAXPROCS.
func WithWorkers(n int) Option { return func(w *World) { w.workers = n } }

// World ticks every agent once per Step. Agents are independent and each is
// owned by exactly one goroutine during a step, so they run concurrently;
// the curves they share are read-only.
type World struct {
	mu      sync.RWMutex
	agents  []*agent.Agent
	byID    map[string]*agent.Agent
	curves  *curve.Library
	bus     bus.EventBus
	logger  log.Log
	workers int

	deltaTime float64
	totalTime float64
	frame     int64
}

func NewWorld(opts ...Option) *World {
	w := &World{
		byID:   make(map[string]*agent.Agent),
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.curves == nil {
		w.curves = curve.NewLibrary()
	}
	if w.bus == nil {
		w.bus = bus.New()
	}
	if w.workers <= 0 {
		w.workers = runtime.GOMAXPROCS(0)
	}
	return w
}

func (w *World) Curves() *curve.Library { return w.curves }
func (w *World) Bus() bus.EventBus      { return w.bus }

func (w *World) AddAgent(a *agent.Agent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.byID[a.ID()]; ok {
		return ErrDuplicateAgent
	}
	w.agents = append(w.agents, a)
	w.byID[a.ID()] = a
	return nil
}

func (w *World) Agent(id string) (*agent.Agent, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	a, ok := w.byID[id]
	return a, ok
}

// Agents returns agents in insertion order.
func (w *World) Agents() []*agent.Agent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*agent.Agent(nil), w.agents...)
}

func (w *World) DeltaTime() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.deltaTime
}

func (w *World) FrameCount() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame
}

// TotalTime is simulated time, not wall clock.
func (w *World) TotalTime() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return time.Duration(w.totalTime * float64(time.Second))
}

// Seconds is simulated time in seconds.
func (w *World) Seconds() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.totalTime
}

// Step advances every agent by dt. ctx is checked once before any agent
// ticks; a step that has started always runs to completion, so the world is
// never left with only some agents advanced.
func (w *World) Step(ctx context.Context, dt float64) error {
	if dt < 0 {
		return ErrInvalidDeltaTime
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	agents := w.Agents()

	var g errgroup.Group
	g.SetLimit(w.workers)
	for _, a := range agents {
		g.Go(func() error {
			a.Tick(dt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w.mu.Lock()
	w.deltaTime = dt
	w.totalTime += dt
	w.frame++
	w.mu.Unlock()
	return nil
}

// Snapshots returns one snapshot per agent ordered by name, then id.
func (w *World) Snapshots() []agent.Snapshot {
	agents := w.Agents()
	out := make([]agent.Snapshot, 0, len(agents))
	for _, a := range agents {
		out = append(out, a.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Frame is what observers see after each step.
type Frame struct {
	Frame  int64            `json:"frame"`
	Time   float64          `json:"time"`
	Agents []agent.Snapshot `json:"agents"`
}

func (w *World) Frame() Frame {
	return Frame{Frame: w.FrameCount(), Time: w.Seconds(), Agents: w.Snapshots()}
}

// RunOptions drives a fixed-step run.
type RunOptions struct {
	DeltaTime float64
	Steps     int
	// BeforeStep runs with the simulated time the step starts at, e.g. to
	// feed recorded input.
	BeforeStep func(t float64) error
	AfterStep  func(f Frame) error
}

// Run performs opts.Steps fixed steps, stopping early on ctx cancellation or
// a hook error.
func (w *World) Run(ctx context.Context, opts RunOptions) error {
	w.logger.Info("world run started",
		log.Int("agents", len(w.Agents())),
		log.Int("steps", opts.Steps),
		log.Float64("delta_time", opts.DeltaTime),
	)
	for i := 0; i < opts.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.BeforeStep != nil {
			if err := opts.BeforeStep(w.Seconds()); err != nil {
				return err
			}
		}
		if err := w.Step(ctx, opts.DeltaTime); err != nil {
			return err
		}
		if opts.AfterStep != nil {
			if err := opts.AfterStep(w.Frame()); err != nil {
				return err
			}
		}
	}
	w.logger.Info("world run finished", log.Int64("frames", w.FrameCount()))
	return nil
}
