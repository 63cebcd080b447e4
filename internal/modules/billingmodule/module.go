// Package billingmodule opens hosted checkout sessions
package billingmodule

import (
	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/modules/billingmodule/api"
	"github.com/mantonx/lineup/internal/modules/billingmodule/core/provider"
	"github.com/mantonx/lineup/internal/modules/billingmodule/service"
	"gorm.io/gorm"
)

const (
	ModuleID   = "billing"
	ModuleName = "Billing"
)

// Module implements checkout as a module
type Module struct {
	*base.BaseModule
	service *service.BillingService
}

// New creates the billing module
func New(deps base.Deps) *Module {
	return &Module{BaseModule: base.NewBaseModule(ModuleID, ModuleName, false, deps)}
}

// Migrate is a no-op; checkout state lives with the provider
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init builds the provider from config. Without a key checkout answers 503.
func (m *Module) Init() error {
	cfg := m.Config().Billing

	var p provider.Provider
	if cfg.StripeSecretKey != "" {
		sp, err := provider.NewStripe(cfg.StripeSecretKey)
		if err != nil {
			return err
		}
		p = sp
		m.Logger().Info("stripe checkout enabled")
	} else {
		m.Logger().Warn("billing not configured, checkout disabled")
	}

	m.service = service.NewBillingService(p, cfg.SuccessURL, cfg.CancelURL, m.Logger())
	m.SetInitialized(true)
	return nil
}

// Service returns the billing service
func (m *Module) Service() *service.BillingService {
	return m.service
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, api.NewHandler(m.service))
}
