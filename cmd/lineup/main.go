package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/config"
	"github.com/mantonx/lineup/internal/database"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/logger"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/modules/modulemanager"
	"github.com/mantonx/lineup/internal/server"
	"github.com/mantonx/lineup/internal/services"
	"github.com/mantonx/lineup/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lineup: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	manager := config.GetConfigManager()
	if err := manager.LoadConfig(config.PathFromEnv()); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := manager.GetConfig()

	log := logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Info("starting lineup", "version", version, "config", manager.ConfigPath())

	enabled, err := telemetry.Init(cfg.Telemetry, version)
	if err != nil {
		log.Warn("error reporting disabled", "error", err)
	} else if enabled {
		defer telemetry.Flush()
	}

	db, err := database.Initialize(cfg.Database, log)
	if err != nil {
		return err
	}
	defer database.Close()

	bus := events.NewMemoryBus(log.Named("events"))
	defer bus.Close()

	registry := modulemanager.NewRegistry(bus, log.Named("modules"))
	deps := base.Deps{
		DB:       db,
		Bus:      bus,
		Config:   cfg,
		Metrics:  metrics.Default(),
		Logger:   log,
		Services: services.Global(),
	}
	if err := server.LoadModules(registry, deps, db, cfg.Modules.Disabled...); err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	config.AddWatcher(func(old, next *config.Config) {
		if old.Logging.Level != next.Logging.Level {
			logger.SetLevel(next.Logging.Level)
		}
		registry.ReloadConfig(next)
	})
	if watcher, err := config.NewFileWatcher(manager, log.Named("config")); err != nil {
		log.Debug("config hot reload disabled", "reason", err)
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	srv := server.New(server.Options{
		Config:   cfg,
		DB:       db,
		Bus:      bus,
		Metrics:  deps.Metrics,
		Registry: registry,
		Services: deps.Services,
		Logger:   log,
		Version:  version,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	if err := registry.Shutdown(ctx); err != nil {
		log.Error("module shutdown failed", "error", err)
	}
	log.Info("shutdown complete")
	return nil
}
