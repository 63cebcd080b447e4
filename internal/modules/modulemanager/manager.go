package modulemanager

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/config"
	"github.com/mantonx/lineup/internal/events"
	"gorm.io/gorm"
)

// Module defines the interface that all modules must implement
type Module interface {
	ID() string                // Unique identifier for the module
	Name() string              // Display name for the module
	Core() bool                // Whether this is a core module (cannot be disabled)
	Migrate(db *gorm.DB) error // Run database migrations
	Init() error               // Initialize the module
}

// RouteRegistrar is an optional interface for modules that need to register routes
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules         map[string]Module
	disabledModules map[string]bool
	order           []Module
	bus             events.EventBus
	logger          hclog.Logger
	mu              sync.RWMutex
	initialized     bool
}

// NewRegistry creates an empty module registry
func NewRegistry(bus events.EventBus, logger hclog.Logger) *ModuleRegistry {
	if bus == nil {
		bus = events.NopBus{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ModuleRegistry{
		modules:         make(map[string]Module),
		disabledModules: make(map[string]bool),
		bus:             bus,
		logger:          logger.Named("modules"),
	}
}

// Register adds a module to the registry
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		r.logger.Warn("module registered after initialization", "module", m.ID())
	}

	r.modules[m.ID()] = m
	r.logger.Debug("module registered", "module", m.ID(), "name", m.Name())
}

// LoadAll migrates and initializes all enabled modules in dependency order
func (r *ModuleRegistry) LoadAll(db *gorm.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		r.logger.Warn("module system already initialized")
		return nil
	}

	enabledModules := make(map[string]Module)
	for id, module := range r.modules {
		if r.disabledModules[id] {
			if module.Core() {
				return fmt.Errorf("attempted to disable core module: %s", id)
			}
			r.logger.Warn("skipping disabled module", "module", id)
			continue
		}
		enabledModules[id] = module
	}

	r.logger.Info("loading modules", "count", len(enabledModules))

	depGraph, err := BuildDependencyGraph(enabledModules, r.logger)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}

	for _, err := range depGraph.ValidateServiceRequirements() {
		r.logger.Warn("service requirement not met", "error", err)
	}

	initOrder, err := depGraph.GetInitializationOrder()
	if err != nil {
		return fmt.Errorf("failed to determine initialization order: %w", err)
	}
	depGraph.LogDependencyInfo()

	// Phase 1: migrations, so every table exists before any service reads
	for _, module := range initOrder {
		if err := module.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", module.Name(), err)
		}
	}

	// Phase 2: early service registration
	for _, module := range initOrder {
		if registrar, ok := module.(ServiceRegistrar); ok {
			if err := registrar.RegisterServices(); err != nil {
				return fmt.Errorf("failed to register services for %s: %w", module.Name(), err)
			}
		}
	}

	// Phase 3: initialization
	for i, module := range initOrder {
		r.logger.Debug("initializing module", "position", i+1, "total", len(initOrder), "module", module.ID())
		if err := module.Init(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", module.Name(), err)
		}
		r.bus.Publish(context.Background(), events.NewModuleLifecycleEvent(events.EventModuleInitialized, module.ID(), module.Name()))
		r.logger.Info("module loaded", "module", module.ID())
	}

	r.order = initOrder
	r.initialized = true
	return nil
}

// DisableModule marks a module as disabled
func (r *ModuleRegistry) DisableModule(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	module, exists := r.modules[id]
	if !exists {
		r.logger.Warn("attempted to disable non-existent module", "module", id)
		return
	}

	if module.Core() {
		r.logger.Error("cannot disable core module", "module", id)
		return
	}

	r.disabledModules[id] = true
	r.logger.Info("module disabled", "module", id)
}

// GetModule returns a module by ID
func (r *ModuleRegistry) GetModule(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	module, exists := r.modules[id]
	return module, exists
}

// ListModules returns all registered modules sorted by ID
func (r *ModuleRegistry) ListModules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modules := make([]Module, 0, len(r.modules))
	for _, module := range r.modules {
		modules = append(modules, module)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].ID() < modules[j].ID() })
	return modules
}

// RegisterRoutes registers routes for every loaded module that implements RouteRegistrar
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, module := range r.order {
		if routeRegistrar, ok := module.(RouteRegistrar); ok {
			r.logger.Debug("registering routes", "module", module.ID())
			routeRegistrar.RegisterRoutes(router)
		}
	}
}

// Health reports the health of every loaded module
func (r *ModuleRegistry) Health(ctx context.Context) map[string]HealthStatus {
	r.mu.RLock()
	order := append([]Module(nil), r.order...)
	r.mu.RUnlock()

	report := make(map[string]HealthStatus, len(order))
	for _, module := range order {
		report[module.ID()] = checkHealth(ctx, module)
	}
	return report
}

// ReloadConfig passes a reloaded configuration to every module that accepts one
func (r *ModuleRegistry) ReloadConfig(cfg *config.Config) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, module := range r.order {
		if reloadable, ok := module.(ConfigReloadable); ok {
			if err := reloadable.ReloadConfig(cfg); err != nil {
				r.logger.Error("config reload failed", "module", module.ID(), "error", err)
			}
		}
	}
}

// Shutdown calls Shutdown on loaded modules in reverse initialization order
func (r *ModuleRegistry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for i := len(r.order) - 1; i >= 0; i-- {
		module := r.order[i]
		if s, ok := module.(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil {
				r.logger.Error("module shutdown failed", "module", module.ID(), "error", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	r.initialized = false
	return firstErr
}
