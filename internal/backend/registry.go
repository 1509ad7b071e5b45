package backend

import (
	"errors"
	"slices"
	"sync"
)

// Registry manages backend instances keyed by provider.
type Registry struct {
	backends map[string]Backend
	mu       sync.RWMutex
}

// NewRegistry creates a new backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register adds a backend to the registry, replacing any backend with the same provider.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backends[b.Provider()] = b
}

// Get retrieves a backend by provider.
func (r *Registry) Get(provider string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.backends[provider]
	return b, ok
}

// Providers returns the registered providers in sorted order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.backends))
	for p := range r.backends {
		providers = append(providers, p)
	}
	slices.Sort(providers)

	return providers
}

// Close closes all registered backends and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for p, b := range r.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.backends, p)
	}

	return errors.Join(errs...)
}
