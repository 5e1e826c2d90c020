// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// =============================================================================
// TYPEWRITER REGISTRY
// =============================================================================

// Registry maps turn IDs to their typewriter handles. Only turns that
// animate ever get a handle: skip-flagged and history turns render their
// final frame directly and are never registered.
//
// The registry is owned by the conversation model and touched only from
// the update loop, so no locking is needed.
type Registry struct {
	handles map[string]*Typewriter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Typewriter)}
}

// Attach registers the handle for a turn, replacing any previous one.
func (r *Registry) Attach(turnID string, tw *Typewriter) {
	r.handles[turnID] = tw
}

// Get returns the handle for a turn, if one is registered.
func (r *Registry) Get(turnID string) (*Typewriter, bool) {
	tw, ok := r.handles[turnID]
	return tw, ok
}

// Detach removes a turn's handle. Missing IDs are ignored.
func (r *Registry) Detach(turnID string) {
	delete(r.handles, turnID)
}

// StopAll interrupts every registered handle. Handles that are not mid-
// reveal ignore the stop.
func (r *Registry) StopAll() {
	for _, tw := range r.handles {
		tw.Stop()
	}
}

// Reset drops every handle, for conversation reset.
func (r *Registry) Reset() {
	r.handles = make(map[string]*Typewriter)
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	return len(r.handles)
}
