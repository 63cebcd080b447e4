// Package base provides the pieces every lineup module shares: identity,
// dependency access and a database health check.
package base

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/config"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

// Deps are the shared dependencies handed to every module
type Deps struct {
	DB       *gorm.DB
	Bus      events.EventBus
	Config   *config.Config
	Metrics  *metrics.Metrics
	Logger   hclog.Logger
	Services *services.ServiceRegistry
}

// BaseModule provides common functionality for all modules
type BaseModule struct {
	id          string
	name        string
	core        bool
	initialized bool
	deps        Deps
	logger      hclog.Logger
	mu          sync.RWMutex
}

// NewBaseModule creates a new base module with common properties
func NewBaseModule(id, name string, core bool, deps Deps) *BaseModule {
	if deps.Bus == nil {
		deps.Bus = events.NopBus{}
	}
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = hclog.NewNullLogger()
	}
	if deps.Services == nil {
		deps.Services = services.Global()
	}
	return &BaseModule{
		id:     id,
		name:   name,
		core:   core,
		deps:   deps,
		logger: deps.Logger.Named(id),
	}
}

func (m *BaseModule) ID() string   { return m.id }
func (m *BaseModule) Name() string { return m.name }
func (m *BaseModule) Core() bool   { return m.core }

func (m *BaseModule) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetInitialized marks the module as initialized
func (m *BaseModule) SetInitialized(initialized bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = initialized
}

// DB returns the database connection
func (m *BaseModule) DB() *gorm.DB { return m.deps.DB }

// Bus returns the event bus
func (m *BaseModule) Bus() events.EventBus { return m.deps.Bus }

// Config returns the configuration the module was built with
func (m *BaseModule) Config() *config.Config { return m.deps.Config }

// Metrics returns the shared collectors, which may be nil
func (m *BaseModule) Metrics() *metrics.Metrics { return m.deps.Metrics }

// Logger returns the module's named logger
func (m *BaseModule) Logger() hclog.Logger { return m.logger }

// Services returns the registry modules publish their services to
func (m *BaseModule) Services() *services.ServiceRegistry { return m.deps.Services }

// Group creates the module's route group
func (m *BaseModule) Group(router *gin.Engine, basePath string, middleware ...gin.HandlerFunc) *gin.RouterGroup {
	m.logger.Debug("registering routes", "base_path", basePath)
	return router.Group(basePath, middleware...)
}

// HealthCheck provides a common health check implementation
func (m *BaseModule) HealthCheck(ctx context.Context) error {
	if !m.IsInitialized() {
		return ErrModuleNotInitialized
	}

	if db := m.DB(); db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return NewModuleError(ErrDatabaseConnection.Code, ErrDatabaseConnection.Message, err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return NewModuleError(ErrDatabasePing.Code, ErrDatabasePing.Message, err)
		}
	}

	return nil
}

// Common errors
var (
	ErrModuleNotInitialized = &ModuleError{Code: "MODULE_NOT_INITIALIZED", Message: "Module is not initialized"}
	ErrDatabaseConnection   = &ModuleError{Code: "DATABASE_CONNECTION", Message: "Failed to get database connection"}
	ErrDatabasePing         = &ModuleError{Code: "DATABASE_PING", Message: "Database ping failed"}
)

// ModuleError provides structured error handling
type ModuleError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ModuleError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ModuleError) Unwrap() error {
	return e.Cause
}

// NewModuleError creates a new module error with optional cause
func NewModuleError(code, message string, cause error) *ModuleError {
	return &ModuleError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
