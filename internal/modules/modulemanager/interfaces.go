// Package modulemanager provides interfaces for the module system
package modulemanager

import (
	"context"
	"time"

	"github.com/mantonx/lineup/internal/config"
)

// ServiceRegistrar is an optional interface for modules that register services early
type ServiceRegistrar interface {
	// RegisterServices is called after migrations but before any Init() calls
	// so modules can publish services other modules depend on
	RegisterServices() error
}

// HealthChecker is an optional interface for modules that can report health status
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Shutdowner is an optional interface for modules holding resources
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ConfigReloadable is an optional interface for modules that apply a
// reloaded configuration without restart
type ConfigReloadable interface {
	ReloadConfig(cfg *config.Config) error
}

// HealthStatus represents the health of a module
type HealthStatus struct {
	Status      HealthState `json:"status"`
	Message     string      `json:"message,omitempty"`
	LastChecked time.Time   `json:"last_checked"`
}

// HealthState represents the state of a module's health
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateUnhealthy HealthState = "unhealthy"
	HealthStateUnknown   HealthState = "unknown"
)

func checkHealth(ctx context.Context, module Module) HealthStatus {
	status := HealthStatus{Status: HealthStateUnknown, LastChecked: time.Now().UTC()}
	checker, ok := module.(HealthChecker)
	if !ok {
		return status
	}
	if err := checker.HealthCheck(ctx); err != nil {
		status.Status = HealthStateUnhealthy
		status.Message = err.Error()
		return status
	}
	status.Status = HealthStateHealthy
	return status
}
