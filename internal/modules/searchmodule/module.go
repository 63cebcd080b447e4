// Package searchmodule provides cross-entity search
package searchmodule

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/modules/modulemanager"
	"github.com/mantonx/lineup/internal/modules/searchmodule/api"
	"github.com/mantonx/lineup/internal/modules/searchmodule/core/backend"
	"github.com/mantonx/lineup/internal/modules/searchmodule/core/cache"
	"github.com/mantonx/lineup/internal/modules/searchmodule/service"
	"gorm.io/gorm"
)

const (
	ModuleID   = "search"
	ModuleName = "Search"
)

// Module implements search as a module
type Module struct {
	*base.BaseModule
	service *service.SearchService
	handler *modulemanager.ModuleEventHandler
}

// New creates the search module
func New(deps base.Deps) *Module {
	return &Module{BaseModule: base.NewBaseModule(ModuleID, ModuleName, false, deps)}
}

// Migrate is a no-op; search reads tables owned by other modules
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init builds the backend and cache and starts cache invalidation
func (m *Module) Init() error {
	cfg := m.Config().Search

	var c cache.Cache = cache.NopCache{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(context.Background(), cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			m.Logger().Warn("search cache unavailable, continuing without it", "addr", cfg.RedisAddr, "error", err)
		} else {
			c = rc
			m.Logger().Info("search cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	m.service = service.NewSearchService(backend.NewGormBackend(m.DB()), c, cfg.MaxResults, m.Logger())

	m.handler = modulemanager.NewModuleEventHandler(m.Bus(), m.Logger())
	for _, entity := range []string{events.EntityAsset, events.EntitySeries, events.EntityBrand} {
		m.handler.Handle(entity, m.service.Invalidate)
	}
	m.handler.Start(context.Background())

	m.SetInitialized(true)
	return nil
}

// Service returns the search service
func (m *Module) Service() *service.SearchService {
	return m.service
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, api.NewHandler(m.service))
}

// Shutdown stops invalidation and closes the cache
func (m *Module) Shutdown(ctx context.Context) error {
	if m.handler != nil {
		m.handler.Stop()
	}
	if m.service != nil {
		return m.service.Close()
	}
	return nil
}
