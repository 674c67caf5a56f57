package domain

import (
	"fmt"
	"strings"
)

// State is one registry entry.
type State struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registry is the immutable id <-> display name mapping. Entries keep the
// order they were loaded in, which is the order shown in the dropdown.
type Registry struct {
	states []State
	names  map[string]string // id -> display name
	ids    map[string]string // display name -> id
}

// NewRegistry validates the entries and builds both directions of the mapping.
// Identifiers and display names must be non-empty and unique. Identifiers name
// files on disk, so they may not contain path separators or dots.
func NewRegistry(states []State) (*Registry, error) {
	if len(states) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		states: make([]State, 0, len(states)),
		names:  make(map[string]string, len(states)),
		ids:    make(map[string]string, len(states)),
	}
	for i, s := range states {
		s.ID = strings.TrimSpace(s.ID)
		s.Name = strings.TrimSpace(s.Name)

		if s.ID == "" || s.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty id or name", ErrInvalidEntry, i)
		}
		if strings.ContainsAny(s.ID, `/\.`) {
			return nil, fmt.Errorf("%w: id %q is not a plain identifier", ErrInvalidEntry, s.ID)
		}
		if _, dup := r.names[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, s.ID)
		}
		if other, dup := r.ids[s.Name]; dup {
			return nil, fmt.Errorf("%w: %q is used by %q and %q", ErrDuplicateName, s.Name, other, s.ID)
		}

		r.states = append(r.states, s)
		r.names[s.ID] = s.Name
		r.ids[s.Name] = s.ID
	}
	return r, nil
}

// States returns a copy of the entries in registry order.
func (r *Registry) States() []State {
	out := make([]State, len(r.states))
	copy(out, r.states)
	return out
}

// Names returns the display names in registry order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.states))
	for i, s := range r.states {
		out[i] = s.Name
	}
	return out
}

// Len returns the number of states.
func (r *Registry) Len() int { return len(r.states) }

// First returns the first entry, the default selection.
func (r *Registry) First() State { return r.states[0] }

// Name returns the display name for an id.
func (r *Registry) Name(id string) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// ID returns the id whose display name is name.
func (r *Registry) ID(name string) (string, error) {
	id, ok := r.ids[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return id, nil
}
