package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/curvemotion/internal/config"
	"github.com/zeusync/curvemotion/internal/core/observability/log"
	"github.com/zeusync/curvemotion/internal/core/system"
	"github.com/zeusync/curvemotion/internal/injector"
	"github.com/zeusync/curvemotion/internal/server"
)

func main() {
	configPath := flag.String("config", "scenario.yaml", "scenario file (.yaml or .json)")
	telemetryAddr := flag.String("telemetry", "", "serve frames over websocket on this address, e.g. :8080")
	realtime := flag.Bool("realtime", false, "pace steps to wall clock")
	logLevel := flag.String("log-level", "", "override the scenario log level")
	flag.Parse()

	if err := run(*configPath, *telemetryAddr, *logLevel, *realtime); err != nil {
		fmt.Fprintln(os.Stderr, "curvesim:", err)
		os.Exit(1)
	}
}

func run(configPath, telemetryAddr, logLevel string, realtime bool) error {
	scenario, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if logLevel == "" {
		logLevel = scenario.LogLevel
	}
	logger := log.NewConsole(log.ParseLevel(logLevel))
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simulation, err := injector.InitializeSimulation(scenario, logger)
	if err != nil {
		return err
	}

	if telemetryAddr == "" {
		telemetryAddr = scenario.Telemetry.Addr
	}
	var telemetry *server.TelemetryServer
	if telemetryAddr != "" {
		telemetry = injector.InitializeTelemetry(logger)
		if err = telemetry.Start(ctx, telemetryAddr); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = telemetry.Stop(shutdownCtx)
		}()
	}

	step := time.Duration(scenario.DeltaTime * float64(time.Second))
	return simulation.Run(ctx, func(f system.Frame) error {
		for _, a := range f.Agents {
			logger.Info("step",
				log.Int64("frame", f.Frame),
				log.Float64("time", f.Time),
				log.String("agent", a.Name),
				log.String("state", a.State.String()),
				log.Float64("input", a.Input),
				log.Float64("parameter", a.Parameter),
				log.Float64("ratio", a.Ratio),
				log.Float64("velocity", a.Velocity),
				log.Float64("x", a.Position.X()),
			)
		}
		if telemetry != nil {
			if err := telemetry.Broadcast(f); err != nil {
				return err
			}
		}
		if realtime {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(step):
			}
		}
		return nil
	})
}
