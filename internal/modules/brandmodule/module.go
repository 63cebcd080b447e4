// Package brandmodule manages brands and resolves brand rails
package brandmodule

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/modules/brandmodule/api"
	"github.com/mantonx/lineup/internal/modules/brandmodule/service"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

const (
	ModuleID   = "brands"
	ModuleName = "Brands"
)

// Module implements brands as a module
type Module struct {
	*base.BaseModule
	service *service.BrandService
}

// New creates the brand module
func New(deps base.Deps) *Module {
	return &Module{BaseModule: base.NewBaseModule(ModuleID, ModuleName, false, deps)}
}

// Migrate creates the brands table
func (m *Module) Migrate(db *gorm.DB) error {
	if err := service.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate brand models: %w", err)
	}
	return nil
}

// Init wires the brand service to the catalog
func (m *Module) Init() error {
	cat, err := services.GetServiceFrom[services.CatalogService](m.Services(), services.CatalogServiceName)
	if err != nil {
		return fmt.Errorf("brand module: %w", err)
	}
	m.service = service.NewBrandService(m.DB(), cat, m.Bus(), m.Logger())
	m.SetInitialized(true)
	return nil
}

// Service returns the brand service
func (m *Module) Service() *service.BrandService {
	return m.service
}

// RequiredServices returns services this module requires
func (m *Module) RequiredServices() []string {
	return []string{services.CatalogServiceName}
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, api.NewHandler(m.service))
}
