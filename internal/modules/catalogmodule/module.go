// Package catalogmodule owns media assets and series: storage, the content
// classifier, clip generation and the catalog HTTP API.
package catalogmodule

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/api"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/repository"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/service"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

const (
	// ModuleID is the unique identifier for the catalog module
	ModuleID = "catalog"

	// ModuleName is the display name for the catalog module
	ModuleName = "Content Catalog"
)

// Module implements the catalog as a module
type Module struct {
	*base.BaseModule
	service *service.CatalogService
}

// New creates the catalog module
func New(deps base.Deps) *Module {
	return &Module{BaseModule: base.NewBaseModule(ModuleID, ModuleName, true, deps)}
}

// Migrate creates the asset and series tables
func (m *Module) Migrate(db *gorm.DB) error {
	m.Logger().Debug("migrating catalog schema")
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate catalog models: %w", err)
	}
	return nil
}

// RegisterServices publishes the catalog service before dependents initialize
func (m *Module) RegisterServices() error {
	m.service = service.NewCatalogService(
		repository.NewCatalogRepository(m.DB()),
		m.Bus(),
		m.Metrics(),
		m.Logger(),
	)
	m.Services().Register(services.CatalogServiceName, m.service)
	return nil
}

// Init initializes the catalog module
func (m *Module) Init() error {
	if m.service == nil {
		if err := m.RegisterServices(); err != nil {
			return err
		}
	}
	m.SetInitialized(true)
	return nil
}

// Service returns the concrete catalog service
func (m *Module) Service() *service.CatalogService {
	return m.service
}

// ProvidedServices lists the services this module registers
func (m *Module) ProvidedServices() []string {
	return []string{services.CatalogServiceName}
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, api.NewHandler(m.service))
}

// Shutdown gracefully shuts down the module
func (m *Module) Shutdown(ctx context.Context) error {
	m.SetInitialized(false)
	return nil
}
