// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Unit is a named bundle of services, sockets and mounts. The name is not part
// of the unit itself, it is the key the unit is stored with in [Units].
type Unit struct {
	Services []*Service `yaml:"service,omitempty"`
	Sockets  []Socket   `yaml:"socket,omitempty"`
	Mounts   []Mount    `yaml:"mount,omitempty"`
}

// Parse decodes and validates a unit from its YAML body.
//
// Runtime state present in the body is kept, so a unit encoded with
// [Unit.Marshal] decodes to the same state.
func Parse(data []byte) (*Unit, error) {
	unit := new(Unit)

	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(unit)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := unit.validate(); err != nil {
		return nil, err
	}

	return unit, nil
}

// Marshal encodes the unit as YAML body including service runtime state.
func (u *Unit) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	return data, nil
}

func (u *Unit) validate() error {
	for idx, svc := range u.Services {
		if svc == nil {
			return fmt.Errorf("%w: service[%d]", ErrMissingField, idx)
		}

		if svc.Name == "" {
			return fmt.Errorf("%w: service[%d].name", ErrMissingField, idx)
		}

		if svc.Exec == "" {
			return fmt.Errorf("%w: service[%d].exec", ErrMissingField, idx)
		}
	}

	for idx, mnt := range u.Mounts {
		if mnt.Target == "" {
			return fmt.Errorf("%w: mount[%d].target", ErrMissingField, idx)
		}
	}

	return nil
}

// resetRuntime sets all services to Inactive without tracked processes.
func (u *Unit) resetRuntime() {
	for _, svc := range u.Services {
		svc.MarkInactive()
	}
}

// Service returns the service with the given name.
func (u *Unit) Service(name string) (*Service, bool) {
	for _, svc := range u.Services {
		if svc.Name == name {
			return svc, true
		}
	}

	return nil, false
}

// Mount returns the mount with the given target path.
func (u *Unit) Mount(target string) (*Mount, bool) {
	for idx := range u.Mounts {
		if u.Mounts[idx].Target == target {
			return &u.Mounts[idx], true
		}
	}

	return nil, false
}

// Socket returns the socket with the given ID.
func (u *Unit) Socket(id string) (*Socket, bool) {
	for idx := range u.Sockets {
		if u.Sockets[idx].Name() == id {
			return &u.Sockets[idx], true
		}
	}

	return nil, false
}
