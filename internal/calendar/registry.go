package calendar

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type specKey struct {
	system  System
	variant string
}

// Registry maps (system, variant) to immutable specs. Lookups are safe for
// concurrent use; registered specs are never replaced.
type Registry struct {
	mu    sync.RWMutex
	specs map[specKey]*Spec
}

// NewRegistry returns a registry holding the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[specKey]*Spec)}
	for _, cfg := range builtinSpecs() {
		spec, err := NewSpec(cfg)
		if err != nil {
			panic(fmt.Sprintf("built-in calendar table: %v", err))
		}
		if err := r.Register(spec); err != nil {
			panic(fmt.Sprintf("built-in calendar table: %v", err))
		}
	}
	return r
}

func keyFor(system System, variant string) specKey {
	return specKey{system: system, variant: strings.ToLower(strings.TrimSpace(variant))}
}

// Register adds spec under its system and variant.
func (r *Registry) Register(spec *Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := keyFor(spec.system, spec.variant)
	if _, ok := r.specs[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCalendarSystem, spec.Name())
	}
	r.specs[k] = spec
	return nil
}

// Lookup returns the spec for system and variant. An empty variant selects
// the system default.
func (r *Registry) Lookup(system, variant string) (*Spec, error) {
	sys, err := ParseSystem(system)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[keyFor(sys, variant)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownCalendarSystem, sys, variant)
	}
	return spec, nil
}

// Has reports whether the variant is registered for system.
func (r *Registry) Has(system System, variant string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.specs[keyFor(system, variant)]
	return ok
}

// Specs returns every registered spec ordered by system then variant.
func (r *Registry) Specs() []*Spec {
	r.mu.RLock()
	out := make([]*Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].system != out[j].system {
			return out[i].system < out[j].system
		}
		return out[i].variant < out[j].variant
	})
	return out
}
