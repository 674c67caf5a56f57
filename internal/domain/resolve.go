package domain

import "fmt"

// Resolver turns a dropdown selection into artifact paths.
type Resolver struct {
	registry *Registry
	layout   Layout
}

// NewResolver creates a Resolver over a loaded registry.
func NewResolver(registry *Registry, layout Layout) *Resolver {
	return &Resolver{registry: registry, layout: layout}
}

// Registry returns the underlying registry.
func (r *Resolver) Registry() *Registry { return r.registry }

// Layout returns the artifact directory layout.
func (r *Resolver) Layout() Layout { return r.layout }

// Resolve maps a display name to its state and artifact paths.
// An unknown name returns ErrUnknownState.
func (r *Resolver) Resolve(name string) (Resolution, error) {
	id, err := r.registry.ID(name)
	if err != nil {
		return Resolution{}, err
	}
	return r.resolution(id, name), nil
}

// ResolveID is Resolve keyed by internal identifier.
func (r *Resolver) ResolveID(id string) (Resolution, error) {
	name, ok := r.registry.Name(id)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: id %q", ErrUnknownState, id)
	}
	return r.resolution(id, name), nil
}

func (r *Resolver) resolution(id, name string) Resolution {
	return Resolution{
		State: State{ID: id, Name: name},
		Paths: r.layout.Paths(id),
	}
}
