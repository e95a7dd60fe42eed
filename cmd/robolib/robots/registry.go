package robots

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// Registry holds validated robot definitions keyed by name.
// A Registry is immutable once Build returns it, so it is safe for concurrent
// readers without locking.
type Registry struct {
	robots map[string]Definition
	names  []string
}

// Build validates every record and returns a Registry, or the first error
// found. Records are validated in key order so the reported error is stable.
// A key that appears twice fails with ErrDuplicateRobot.
func Build(records []RawRobot) (*Registry, error) {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b RawRobot) int {
		return cmp.Compare(a.Key, b.Key)
	})

	reg := &Registry{
		robots: make(map[string]Definition, len(sorted)),
		names:  make([]string, 0, len(sorted)),
	}
	for _, r := range sorted {
		if _, exists := reg.robots[r.Key]; exists {
			return nil, &ValidationError{Robot: r.Key, Err: ErrDuplicateRobot}
		}
		def, err := convert(r)
		if err != nil {
			return nil, err
		}
		reg.robots[r.Key] = def
		reg.names = append(reg.names, r.Key)
	}
	return reg, nil
}

// Len returns the number of robots.
func (r *Registry) Len() int { return len(r.names) }

// Get returns the definition for name. Names are compared byte for byte.
func (r *Registry) Get(name string) (Definition, error) {
	def, ok := r.robots[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return def.clone(), nil
}

// ResolveAssetURL returns the asset bundle URL of name for platform.
// ErrNotFound means the robot is unknown; ErrNoAssetForPlatform means it is
// known but has no bundle for that platform.
func (r *Registry) ResolveAssetURL(name string, platform Platform) (string, error) {
	if !platform.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	def, ok := r.robots[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	u, ok := def.URLs[platform]
	if !ok {
		return "", fmt.Errorf("robot %q: %w: %s", name, ErrNoAssetForPlatform, platform)
	}
	return u, nil
}

// ResolveChain returns a copy of the index-th kinematic chain of name, ordered
// root to tip.
func (r *Registry) ResolveChain(name string, index int) (Chain, error) {
	def, ok := r.robots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if len(def.Chains) == 0 {
		return nil, fmt.Errorf("robot %q: %w", name, ErrNoChain)
	}
	if index < 0 || index >= len(def.Chains) {
		return nil, fmt.Errorf("robot %q: %w: index %d, have %d", name, ErrChainIndex, index, len(def.Chains))
	}
	return slices.Clone(def.Chains[index]), nil
}

// JointOrder returns the actuated joint names of the index-th chain of name.
func (r *Registry) JointOrder(name string, index int) ([]string, error) {
	chain, err := r.ResolveChain(name, index)
	if err != nil {
		return nil, err
	}
	return chain.JointOrder(), nil
}

// Targets returns a copy of the demo pose targets of name. Target joint names
// are not checked against the chains.
func (r *Registry) Targets(name string) (map[string]JointTarget, error) {
	def, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return def.Targets, nil
}

// Names yields robot names in lexicographic order. The sequence can be ranged
// over any number of times and always yields the same order.
func (r *Registry) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range r.names {
			if !yield(n) {
				return
			}
		}
	}
}

// Definitions yields copies of every definition in name order.
func (r *Registry) Definitions() iter.Seq[Definition] {
	return func(yield func(Definition) bool) {
		for _, n := range r.names {
			if !yield(r.robots[n].clone()) {
				return
			}
		}
	}
}
