package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/config"
	"github.com/mantonx/lineup/internal/database"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/logger"
	"github.com/mantonx/lineup/internal/modules/brandmodule"
	"github.com/mantonx/lineup/internal/modules/catalogmodule"
	"github.com/mantonx/lineup/internal/modules/identitymodule"
	"github.com/mantonx/lineup/internal/modules/modulemanager"
	"github.com/mantonx/lineup/internal/modules/schedulemodule"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

// modules are the loaded modules a command can reach
type modules struct {
	catalog  *catalogmodule.Module
	identity *identitymodule.Module
	schedule *schedulemodule.Module
	brands   *brandmodule.Module
}

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	loadOnce sync.Once
	loadErr  error
	cfg      *config.Config
	db       *gorm.DB
	registry *modulemanager.ModuleRegistry
	mods     *modules
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, jsonFlag: jsonFlag}
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// load reads configuration, opens the database and loads the modules the
// commands use. Changes made by the CLI are not published to running servers.
func (c *commandContext) load() (*modules, error) {
	c.loadOnce.Do(func() {
		path := config.PathFromEnv()
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		manager := config.GetConfigManager()
		if err := manager.LoadConfig(path); err != nil {
			c.loadErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.cfg = manager.GetConfig()

		log := logger.Configure(logger.Options{Level: "warn", Format: c.cfg.Logging.Format})
		db, err := database.Initialize(c.cfg.Database, log)
		if err != nil {
			c.loadErr = err
			return
		}
		c.db = db

		deps := base.Deps{
			DB:       db,
			Bus:      events.NopBus{},
			Config:   c.cfg,
			Logger:   log,
			Services: services.NewRegistry(),
		}
		mods := &modules{
			catalog:  catalogmodule.New(deps),
			identity: identitymodule.New(deps),
			schedule: schedulemodule.New(deps),
			brands:   brandmodule.New(deps),
		}
		c.registry = modulemanager.NewRegistry(deps.Bus, log.Named("modules"))
		for _, m := range []modulemanager.Module{mods.catalog, mods.identity, mods.schedule, mods.brands} {
			c.registry.Register(m)
		}
		if err := c.registry.LoadAll(db); err != nil {
			c.loadErr = fmt.Errorf("load modules: %w", err)
			return
		}
		c.mods = mods
	})
	return c.mods, c.loadErr
}

func (c *commandContext) close(ctx context.Context) error {
	if c.registry != nil {
		if err := c.registry.Shutdown(ctx); err != nil {
			return err
		}
	}
	if c.db != nil {
		return database.Close()
	}
	return nil
}
