// Package identitymodule is the users and roles boundary: it turns bearer
// tokens into viewers and lets master admins change roles.
package identitymodule

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/modules/identitymodule/api"
	"github.com/mantonx/lineup/internal/modules/identitymodule/core/tokens"
	"github.com/mantonx/lineup/internal/modules/identitymodule/service"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

const (
	ModuleID   = "identity"
	ModuleName = "Identity"
)

// Module implements the identity boundary as a module
type Module struct {
	*base.BaseModule
	service *service.IdentityService
}

// New creates the identity module
func New(deps base.Deps) *Module {
	return &Module{BaseModule: base.NewBaseModule(ModuleID, ModuleName, true, deps)}
}

// Migrate creates the users table
func (m *Module) Migrate(db *gorm.DB) error {
	if err := service.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate identity models: %w", err)
	}
	return nil
}

// RegisterServices publishes the identity service
func (m *Module) RegisterServices() error {
	sec := m.Config().Security
	tm, err := tokens.NewManager(sec.JWTSecret, sec.JWTIssuer, sec.TokenTTL)
	if err != nil {
		m.Logger().Warn("bearer tokens disabled", "reason", err)
		tm = nil
	}
	m.service = service.NewIdentityService(m.DB(), tm, m.Bus(), m.Logger())
	m.Services().Register(services.IdentityServiceName, m.service)
	return nil
}

// Init initializes the identity module
func (m *Module) Init() error {
	if m.service == nil {
		if err := m.RegisterServices(); err != nil {
			return err
		}
	}
	m.SetInitialized(true)
	return nil
}

// Service returns the concrete identity service
func (m *Module) Service() *service.IdentityService {
	return m.service
}

// ProvidedServices lists the services this module registers
func (m *Module) ProvidedServices() []string {
	return []string{services.IdentityServiceName}
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, api.NewHandler(m.service))
}
