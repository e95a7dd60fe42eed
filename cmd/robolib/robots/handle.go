package robots

import "sync/atomic"

// Handle is the shared reference to the current Registry. It starts Unloaded;
// Store or Swap publish a fully built Registry in a single atomic step, so a
// reader sees either the previous registry or the new one.
type Handle struct {
	current atomic.Pointer[Registry]
}

// NewHandle returns a Handle holding reg. reg may be nil for an Unloaded handle.
func NewHandle(reg *Registry) *Handle {
	h := &Handle{}
	if reg != nil {
		h.current.Store(reg)
	}
	return h
}

// Load returns the current registry, or nil while the handle is Unloaded.
func (h *Handle) Load() *Registry {
	return h.current.Load()
}

// Registry returns the current registry or ErrNotLoaded.
func (h *Handle) Registry() (*Registry, error) {
	reg := h.current.Load()
	if reg == nil {
		return nil, ErrNotLoaded
	}
	return reg, nil
}

// Loaded reports whether a registry has been published.
func (h *Handle) Loaded() bool {
	return h.current.Load() != nil
}

// Store publishes reg. There is no way back to Unloaded, so reg must not be nil.
func (h *Handle) Store(reg *Registry) {
	if reg == nil {
		panic("robots: Handle.Store called with a nil registry")
	}
	h.current.Store(reg)
}

// Swap publishes reg and returns the registry it replaced (nil if none).
func (h *Handle) Swap(reg *Registry) *Registry {
	if reg == nil {
		panic("robots: Handle.Swap called with a nil registry")
	}
	return h.current.Swap(reg)
}
