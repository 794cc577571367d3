// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"iter"
	"strings"

	"github.com/bushyice/rind/internal/name"
)

// Units stores loaded units by name and the set of enabled unit names.
//
// Units is not safe for concurrent use. The daemon only accesses it through a
// [Registry]. Iteration is in lexicographic order of the unit names.
type Units struct {
	units   map[name.Name]*Unit
	enabled map[name.Name]struct{}
}

// NewUnits creates an empty store.
func NewUnits() *Units {
	return &Units{
		units:   make(map[name.Name]*Unit),
		enabled: make(map[name.Name]struct{}),
	}
}

// InsertUnit stores the unit with the given name. A unit already stored with
// that name is replaced including the runtime state of its services.
func (u *Units) InsertUnit(n name.Name, unit *Unit) {
	u.units[n] = unit
}

// Unit returns the unit with the given name.
func (u *Units) Unit(n name.Name) (*Unit, bool) {
	unit, exists := u.units[n]
	return unit, exists
}

// Len returns the number of stored units.
func (u *Units) Len() int {
	return len(u.units)
}

// Names returns the names of all stored units.
func (u *Units) Names() []name.Name {
	return sortedKeys(u.units)
}

// All iterates all stored units.
func (u *Units) All() iter.Seq2[name.Name, *Unit] {
	return sortedMap(u.units)
}

// Enabled iterates the stored units whose names are in the enabled set.
// Enabled names without a stored unit are skipped.
func (u *Units) Enabled() iter.Seq2[name.Name, *Unit] {
	return func(yield func(name.Name, *Unit) bool) {
		for n, unit := range sortedMap(u.units) {
			if !u.IsEnabled(n) {
				continue
			}

			if !yield(n, unit) {
				return
			}
		}
	}
}

// Services iterates the services of all stored units, enabled or not,
// together with the name of the owning unit.
func (u *Units) Services() iter.Seq2[name.Name, *Service] {
	return func(yield func(name.Name, *Service) bool) {
		for n, unit := range sortedMap(u.units) {
			for _, svc := range unit.Services {
				if !yield(n, svc) {
					return
				}
			}
		}
	}
}

// Service returns the service with the given name of the given unit.
func (u *Units) Service(unitName name.Name, serviceName string) (*Service, bool) {
	unit, exists := u.units[unitName]
	if !exists {
		return nil, false
	}

	return unit.Service(serviceName)
}

// IsEnabled returns true if the given name is in the enabled set, regardless
// of whether a unit with that name is stored.
func (u *Units) IsEnabled(n name.Name) bool {
	_, enabled := u.enabled[n]
	return enabled
}

// EnabledNames returns all names of the enabled set.
func (u *Units) EnabledNames() []name.Name {
	return sortedKeys(u.enabled)
}

// Enable adds the given name to the enabled set.
func (u *Units) Enable(n name.Name) {
	u.enabled[n] = struct{}{}
}

// Disable removes the given name from the enabled set. It returns false if
// the name was not enabled.
func (u *Units) Disable(n name.Name) bool {
	if !u.IsEnabled(n) {
		return false
	}

	delete(u.enabled, n)

	return true
}

// ParseEnabled adds the names listed in the given text to the enabled set.
//
// Names are separated by newlines and trimmed. Empty lines are ignored. Names
// already in the set stay in the set.
func (u *Units) ParseEnabled(text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		u.Enable(name.New(line))
	}
}
