// Package schedulemodule builds and serves live channel schedules
package schedulemodule

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/config"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/api"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/core/builder"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/service"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

const (
	ModuleID   = "schedule"
	ModuleName = "Live Schedule"
)

// Module implements live channels as a module
type Module struct {
	*base.BaseModule
	service *service.ScheduleService
}

// New creates the schedule module
func New(deps base.Deps) *Module {
	return &Module{BaseModule: base.NewBaseModule(ModuleID, ModuleName, false, deps)}
}

// Migrate creates the channels table
func (m *Module) Migrate(db *gorm.DB) error {
	if err := service.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate schedule models: %w", err)
	}
	return nil
}

// Init wires the schedule service to the catalog
func (m *Module) Init() error {
	cat, err := services.GetServiceFrom[services.CatalogService](m.Services(), services.CatalogServiceName)
	if err != nil {
		return fmt.Errorf("schedule module: %w", err)
	}
	opts := builder.Options{AllowOverlap: m.Config().Schedule.AllowOverlap}
	m.service = service.NewScheduleService(m.DB(), cat, opts, m.Bus(), m.Metrics(), m.Logger())
	m.SetInitialized(true)
	return nil
}

// Service returns the schedule service
func (m *Module) Service() *service.ScheduleService {
	return m.service
}

// RequiredServices returns services this module requires
func (m *Module) RequiredServices() []string {
	return []string{services.CatalogServiceName}
}

// ReloadConfig applies schedule settings from a reloaded configuration
func (m *Module) ReloadConfig(cfg *config.Config) error {
	if m.service != nil {
		m.service.SetAllowOverlap(cfg.Schedule.AllowOverlap)
		m.Logger().Info("schedule config reloaded", "allow_overlap", cfg.Schedule.AllowOverlap)
	}
	return nil
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, api.NewHandler(m.service))
}
