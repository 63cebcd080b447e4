package server

import (
	"github.com/mantonx/lineup/internal/base"
	"github.com/mantonx/lineup/internal/modules/admodule"
	"github.com/mantonx/lineup/internal/modules/billingmodule"
	"github.com/mantonx/lineup/internal/modules/brandmodule"
	"github.com/mantonx/lineup/internal/modules/catalogmodule"
	"github.com/mantonx/lineup/internal/modules/identitymodule"
	"github.com/mantonx/lineup/internal/modules/modulemanager"
	"github.com/mantonx/lineup/internal/modules/schedulemodule"
	"github.com/mantonx/lineup/internal/modules/searchmodule"
	"gorm.io/gorm"
)

// NewModules builds every module of the service
func NewModules(deps base.Deps) []modulemanager.Module {
	return []modulemanager.Module{
		catalogmodule.New(deps),
		identitymodule.New(deps),
		schedulemodule.New(deps),
		admodule.New(deps),
		brandmodule.New(deps),
		searchmodule.New(deps),
		billingmodule.New(deps),
	}
}

// LoadModules registers every module, disables the named ones and runs
// the registry lifecycle against db
func LoadModules(registry *modulemanager.ModuleRegistry, deps base.Deps, db *gorm.DB, disabled ...string) error {
	for _, m := range NewModules(deps) {
		registry.Register(m)
	}
	for _, id := range disabled {
		registry.DisableModule(id)
	}
	return registry.LoadAll(db)
}
