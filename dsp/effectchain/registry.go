package effectchain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Factory builds one Runtime instance for a node.
type Factory func(ctx Context) (Runtime, error)

// Registration errors.
var (
	ErrDuplicateEffect = errors.New("effectchain: effect type already registered")
	ErrInvalidEffect   = errors.New("effectchain: invalid effect registration")
)

// Registry maps effect type names to their factories. Names are matched
// case-insensitively with surrounding space ignored.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func normalizeType(effectType string) string {
	return strings.ToLower(strings.TrimSpace(effectType))
}

// Register adds a factory for effectType.
func (r *Registry) Register(effectType string, factory Factory) error {
	name := normalizeType(effectType)

	switch {
	case name == "":
		return fmt.Errorf("%w: empty effect type", ErrInvalidEffect)
	case factory == nil:
		return fmt.Errorf("%w: nil factory for %q", ErrInvalidEffect, name)
	}

	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateEffect, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level setup where a failure is a programming error.
func (r *Registry) MustRegister(effectType string, factory Factory) {
	if err := r.Register(effectType, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory for effectType.
func (r *Registry) Lookup(effectType string) (Factory, bool) {
	f, ok := r.factories[normalizeType(effectType)]
	return f, ok
}

// Types returns the registered effect type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for name := range r.factories {
		types = append(types, name)
	}

	slices.Sort(types)

	return types
}
