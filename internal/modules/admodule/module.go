// Package admodule decides playback entitlement and serves ads
package admodule

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/modules/admodule/api"
	"github.com/mantonx/lineup/internal/modules/admodule/service"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

const (
	ModuleID   = "ads"
	ModuleName = "Entitlement & Ads"
)

// Module implements ads and playback decisions as a module
type Module struct {
	*base.BaseModule
	service *service.AdService
}

// New creates the ads module
func New(deps base.Deps) *Module {
	return &Module{BaseModule: base.NewBaseModule(ModuleID, ModuleName, false, deps)}
}

// Migrate creates the ad tables
func (m *Module) Migrate(db *gorm.DB) error {
	if err := service.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate ad models: %w", err)
	}
	return nil
}

// Init wires the ad service to the catalog
func (m *Module) Init() error {
	cat, err := services.GetServiceFrom[services.CatalogService](m.Services(), services.CatalogServiceName)
	if err != nil {
		return fmt.Errorf("ads module: %w", err)
	}
	m.service = service.NewAdService(m.DB(), cat, m.Bus(), m.Metrics(), m.Logger())
	m.SetInitialized(true)
	return nil
}

// Service returns the ad service
func (m *Module) Service() *service.AdService {
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
