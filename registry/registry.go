// Package registry maps agent identifiers to their immutable descriptors.
// It is populated once at startup and read-only during sessions, so it is the
// only process-wide shared state and requires no locking on the hot path.
package registry

import (
	"fmt"
	"sync"

	"github.com/campusmesh/campusmesh/core"
)

// Registry holds registered agent descriptors in registration order.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*core.Descriptor
	order  []string
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{agents: make(map[string]*core.Descriptor)}
}

// Register adds a descriptor, failing if the identifier already exists.
func (r *Registry) Register(desc *core.Descriptor) error {
	if desc == nil || desc.Name == "" {
		return fmt.Errorf("%w: descriptor requires a name", core.ErrConfiguration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[desc.Name]; exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateAgent, desc.Name)
	}

	r.agents[desc.Name] = desc
	r.order = append(r.order, desc.Name)

	return nil
}

// RegisterAll registers descriptors in order, stopping on the first failure.
func (r *Registry) RegisterAll(descs ...*core.Descriptor) error {
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the descriptor for the given identifier.
func (r *Registry) Resolve(name string) (*core.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAgent, name)
	}

	return desc, nil
}

// Names returns agent identifiers in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}
