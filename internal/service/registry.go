// Package service implements the tool registry: discovery and dispatch of
// provider operations by namespaced tool ID.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tamaos/tamaos/internal/types"
)

// Provider is implemented by every registered service.
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error)
}

// Registry manages service registration and execution.
type Registry struct {
	services sync.Map
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a service provider.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	r.services.Store(def.ID, provider)
	return nil
}

// Unregister removes a service provider.
func (r *Registry) Unregister(serviceID string) {
	r.services.Delete(serviceID)
}

// Get retrieves a service by ID.
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all registered services, sorted by ID for stable output.
func (r *Registry) List(category *types.Category) []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// Execute runs a tool. Tool IDs are namespaced "service.tool"; everything
// before the first dot selects the provider.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	parts := strings.SplitN(toolID, ".", 2)
	if len(parts) < 2 {
		return types.Failure("invalid tool ID format"), fmt.Errorf("invalid tool ID format: %s", toolID)
	}

	provider, ok := r.Get(parts[0])
	if !ok {
		return types.Failure(fmt.Sprintf("service not found: %s", parts[0])),
			fmt.Errorf("service not found: %s", parts[0])
	}

	return provider.Execute(ctx, toolID, params)
}

// Stats returns registry statistics.
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"categories":     categories,
	}
}
