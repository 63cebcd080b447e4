package modulemanager

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// DependencyProvider is implemented by modules that name other modules they need
type DependencyProvider interface {
	Dependencies() []string
}

// ServiceProvider is implemented by modules that publish services to the registry
type ServiceProvider interface {
	ProvidedServices() []string
}

// ServiceConsumer is implemented by modules that look up services at Init
type ServiceConsumer interface {
	RequiredServices() []string
}

type moduleNode struct {
	module   Module
	after    []string
	provides []string
	requires []string
}

// ModuleDependencyGraph orders modules so providers load before consumers
type ModuleDependencyGraph struct {
	nodes     map[string]*moduleNode
	providers map[string]string
	order     []string
	logger    hclog.Logger
}

// BuildDependencyGraph resolves declared and service dependencies between
// modules. It fails on an unknown module, a service published twice, or a
// cycle.
func BuildDependencyGraph(modules map[string]Module, logger hclog.Logger) (*ModuleDependencyGraph, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	g := &ModuleDependencyGraph{
		nodes:     make(map[string]*moduleNode, len(modules)),
		providers: make(map[string]string),
		logger:    logger,
	}

	ids := make([]string, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		m := modules[id]
		n := &moduleNode{module: m}
		if p, ok := m.(DependencyProvider); ok {
			n.after = append(n.after, p.Dependencies()...)
		}
		if p, ok := m.(ServiceProvider); ok {
			n.provides = p.ProvidedServices()
			for _, svc := range n.provides {
				if other, taken := g.providers[svc]; taken {
					return nil, fmt.Errorf("service %q is provided by both %s and %s", svc, other, id)
				}
				g.providers[svc] = id
			}
		}
		if c, ok := m.(ServiceConsumer); ok {
			n.requires = c.RequiredServices()
		}
		g.nodes[id] = n
	}

	for _, id := range ids {
		n := g.nodes[id]
		for _, svc := range n.requires {
			if provider, ok := g.providers[svc]; ok && provider != id {
				n.after = append(n.after, provider)
				logger.Debug("service dependency", "module", id, "provider", provider, "service", svc)
			}
		}
		for _, dep := range n.after {
			if _, ok := g.nodes[dep]; !ok {
				return nil, fmt.Errorf("module %s depends on unknown module %s", id, dep)
			}
		}
	}

	if err := g.resolveOrder(ids); err != nil {
		return nil, err
	}
	return g, nil
}

// resolveOrder fills g.order depth first. Modules without dependencies seed the walk
// so unrelated modules keep their alphabetical order.
func (g *ModuleDependencyGraph) resolveOrder(ids []string) error {
	const (
		unseen = iota
		active
		done
	)
	state := make(map[string]int, len(ids))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case active:
			start := 0
			for i, s := range stack {
				if s == id {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, stack[start:]...), id)
			return fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " -> "))
		}
		state[id] = active
		stack = append(stack, id)
		for _, dep := range g.nodes[id].after {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		g.order = append(g.order, id)
		return nil
	}

	for _, roots := range []bool{true, false} {
		for _, id := range ids {
			if roots && len(g.nodes[id].after) > 0 {
				continue
			}
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetInitializationOrder returns modules with every dependency ahead of its dependents
func (g *ModuleDependencyGraph) GetInitializationOrder() ([]Module, error) {
	if len(g.order) != len(g.nodes) {
		return nil, fmt.Errorf("dependency graph is incomplete: ordered %d of %d modules", len(g.order), len(g.nodes))
	}
	out := make([]Module, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].module)
	}
	return out, nil
}

// LogDependencyInfo writes one debug line per module in load order
func (g *ModuleDependencyGraph) LogDependencyInfo() {
	for i, id := range g.order {
		n := g.nodes[id]
		g.logger.Debug("module dependencies",
			"module", id,
			"load_order", i+1,
			"after", n.after,
			"provides", n.provides,
			"requires", n.requires)
	}
}

// ValidateServiceRequirements lists required services nobody provides
func (g *ModuleDependencyGraph) ValidateServiceRequirements() []error {
	var errs []error
	for _, id := range g.order {
		for _, svc := range g.nodes[id].requires {
			if _, ok := g.providers[svc]; !ok {
				errs = append(errs, fmt.Errorf("module %s requires service %q but no module provides it", id, svc))
			}
		}
	}
	return errs
}
