//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/curvemotion/internal/config"
	"github.com/zeusync/curvemotion/internal/core/events/bus"
	"github.com/zeusync/curvemotion/internal/core/observability/log"
	"github.com/zeusync/curvemotion/internal/server"
	"github.com/zeusync/curvemotion/internal/sim"
)

func InitializeSimulation(scenario *config.Scenario, logger log.Log) (*sim.Simulation, error) {
	wire.Build(bus.New, sim.Build)
	return nil, nil
}

func InitializeTelemetry(logger log.Log) *server.TelemetryServer {
	wire.Build(server.NewTelemetryServer)
	return nil
}
