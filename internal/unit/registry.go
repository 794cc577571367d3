// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import "sync"

// Registry guards the process wide [Units] with a single reader/writer lock.
//
// Functions passed to [Registry.Read] and [Registry.Write] must not block on
// anything but short syscalls while holding the lock.
type Registry struct {
	mu    sync.RWMutex
	units *Units
}

// NewRegistry creates a registry with an empty store.
func NewRegistry() *Registry {
	return &Registry{
		units: NewUnits(),
	}
}

// Read runs the given function with the shared lock held.
func (r *Registry) Read(fn func(units *Units)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn(r.units)
}

// Write runs the given function with the exclusive lock held.
func (r *Registry) Write(fn func(units *Units)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.units)
}
