package preset

import (
	"fmt"
	"sort"
)

// Registry provides lookup of presets by ID.
type Registry struct {
	presets map[string]*Preset
}

// NewRegistry returns a Registry holding the built-in default preset.
//
// Postcondition: Get(DefaultID) succeeds until a loaded preset replaces it.
func NewRegistry() *Registry {
	r := &Registry{presets: make(map[string]*Preset)}
	r.Register(Default())
	return r
}

// LoadRegistry builds a Registry from the default preset plus every preset in dir.
// An empty dir yields only the default.
func LoadRegistry(dir string) (*Registry, error) {
	r := NewRegistry()
	if dir == "" {
		return r, nil
	}
	presets, err := LoadPresets(dir)
	if err != nil {
		return nil, err
	}
	for _, p := range presets {
		r.Register(p)
	}
	return r, nil
}

// Register adds p to the registry; the last registration of an ID wins.
//
// Precondition: p must be non-nil with a non-empty ID.
func (r *Registry) Register(p *Preset) {
	if p == nil {
		panic("Registry.Register: precondition violated: preset must be non-nil")
	}
	if p.ID == "" {
		panic("Registry.Register: precondition violated: preset ID must be non-empty")
	}
	r.presets[p.ID] = p
}

// Get returns the preset registered under id.
//
// Postcondition: Returns a non-nil preset, or an error naming the known IDs.
func (r *Registry) Get(id string) (*Preset, error) {
	if p, ok := r.presets[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown preset %q (known: %v)", id, r.IDs())
}

// IDs returns every registered ID in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.presets))
	for id := range r.presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every registered preset sorted by ID.
func (r *Registry) All() []*Preset {
	out := make([]*Preset, 0, len(r.presets))
	for _, id := range r.IDs() {
		out = append(out, r.presets[id])
	}
	return out
}
