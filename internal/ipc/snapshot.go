// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ipc

import (
	"fmt"

	"github.com/bushyice/rind/internal/name"
	"github.com/bushyice/rind/internal/unit"
	"gopkg.in/yaml.v3"
)

// Snapshot is a serializable copy of a registry.
//
// Units and Names are parallel lists: Units[i] is the serialized body of the
// unit named Names[i]. Enabled lists the enabled names in no particular
// relation to the other lists.
type Snapshot struct {
	Units   []string `yaml:"units"`
	Names   []string `yaml:"names"`
	Enabled []string `yaml:"enabled"`
}

// NewSnapshot serializes all units of the given store including the runtime
// state of their services. The caller must hold at least a read lock.
func NewSnapshot(units *unit.Units) (*Snapshot, error) {
	snapshot := &Snapshot{
		Units:   make([]string, 0, units.Len()),
		Names:   make([]string, 0, units.Len()),
		Enabled: []string{},
	}

	for n, u := range units.All() {
		body, err := u.Marshal()
		if err != nil {
			return nil, fmt.Errorf("serialize unit %s: %w", n, err)
		}

		snapshot.Units = append(snapshot.Units, string(body))
		snapshot.Names = append(snapshot.Names, n.String())
	}

	for _, n := range units.EnabledNames() {
		snapshot.Enabled = append(snapshot.Enabled, n.String())
	}

	return snapshot, nil
}

// DecodeSnapshot deserializes a snapshot from a message payload.
func DecodeSnapshot(payload string) (*Snapshot, error) {
	var snapshot Snapshot
	if err := yaml.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if len(snapshot.Units) != len(snapshot.Names) {
		return nil, fmt.Errorf("%w: %d units, %d names",
			ErrSnapshotMismatch, len(snapshot.Units), len(snapshot.Names))
	}

	return &snapshot, nil
}

// Encode serializes the snapshot as message payload.
func (s *Snapshot) Encode() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	return string(data), nil
}

// Registry rebuilds a read-only copy of the registry the snapshot was taken
// from, including the enabled set.
func (s *Snapshot) Registry() (*unit.Units, error) {
	if len(s.Units) != len(s.Names) {
		return nil, fmt.Errorf("%w: %d units, %d names",
			ErrSnapshotMismatch, len(s.Units), len(s.Names))
	}

	units := unit.NewUnits()

	for idx, body := range s.Units {
		u, err := unit.Parse([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("parse unit %s: %w", s.Names[idx], err)
		}

		units.InsertUnit(name.New(s.Names[idx]), u)
	}

	for _, n := range s.Enabled {
		units.Enable(name.New(n))
	}

	return units, nil
}

// SnapshotMessage creates a reply of the given kind carrying a snapshot of the
// given store.
func SnapshotMessage(kind Kind, units *unit.Units) (Message, error) {
	snapshot, err := NewSnapshot(units)
	if err != nil {
		return Message{}, err
	}

	payload, err := snapshot.Encode()
	if err != nil {
		return Message{}, err
	}

	return NewMessage(kind, payload), nil
}

// Snapshot decodes the snapshot carried by the message.
func (m Message) Snapshot() (*Snapshot, error) {
	if !m.HasPayload() {
		return nil, fmt.Errorf("%w: %s reply", ErrMissingPayload, m.Kind)
	}

	return DecodeSnapshot(m.PayloadString())
}
