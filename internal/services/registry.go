package services

import (
	"fmt"
	"sort"
	"sync"
)

// ServiceRegistry lets modules expose their functionality to each other
// through interfaces instead of direct imports.
type ServiceRegistry struct {
	mu       sync.RWMutex
	services map[string]interface{}
}

var globalRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *ServiceRegistry {
	return &ServiceRegistry{services: make(map[string]interface{})}
}

// Register stores service under name, replacing any previous value
func (r *ServiceRegistry) Register(name string, service interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[name] = service
}

// Get returns the service registered under name
func (r *ServiceRegistry) Get(name string) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	service, exists := r.services[name]
	if !exists {
		return nil, fmt.Errorf("service '%s' not found", name)
	}
	return service, nil
}

// List returns all registered service names in sorted order
func (r *ServiceRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetServiceFrom retrieves a typed service from a specific registry
func GetServiceFrom[T any](r *ServiceRegistry, name string) (T, error) {
	var zero T

	service, err := r.Get(name)
	if err != nil {
		return zero, err
	}

	typedService, ok := service.(T)
	if !ok {
		return zero, fmt.Errorf("service '%s' has wrong type %T", name, service)
	}
	return typedService, nil
}

// Global returns the process-wide registry
func Global() *ServiceRegistry {
	return globalRegistry
}
