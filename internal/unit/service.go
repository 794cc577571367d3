// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Service is a supervised child process definition together with its runtime
// state.
//
// The declarative fields are read from the descriptor. The runtime fields are
// only changed by the transition methods while the owning [Registry] is
// locked for writing.
type Service struct {
	Name    string
	Exec    string
	Args    []string
	Restart bool

	process *os.Process
	state   State
}

// State returns the current runtime state.
func (s *Service) State() State {
	return s.state
}

// Process returns the tracked process, if any.
func (s *Service) Process() *os.Process {
	return s.process
}

// PID returns the ID of the tracked process or 0 if none is tracked.
func (s *Service) PID() int {
	if s.process == nil {
		return 0
	}

	return s.process.Pid
}

// Tracks returns true if the service tracks a process with the given ID.
func (s *Service) Tracks(pid int) bool {
	return s.process != nil && s.process.Pid == pid
}

// MarkActive tracks the given process and sets the state to Active.
func (s *Service) MarkActive(process *os.Process) {
	s.process = process
	s.state = Active()
}

// MarkExited drops the tracked process and sets the state to Exited.
func (s *Service) MarkExited(code int) {
	s.process = nil
	s.state = Exited(code)
}

// MarkError drops the tracked process and sets the state to Error.
func (s *Service) MarkError(message string) {
	s.process = nil
	s.state = Failed(message)
}

// MarkInactive drops the tracked process and sets the state to Inactive.
func (s *Service) MarkInactive() {
	s.process = nil
	s.state = Inactive()
}

type serviceDocument struct {
	Name    string   `yaml:"name"`
	Exec    string   `yaml:"exec"`
	Args    []string `yaml:"args,omitempty"`
	Restart bool     `yaml:"restart"`
	State   *State   `yaml:"state,omitempty"`
}

// MarshalYAML implements [yaml.Marshaler]. The runtime state is included, the
// process handle is not.
func (s *Service) MarshalYAML() (any, error) {
	state := s.state

	return serviceDocument{
		Name:    s.Name,
		Exec:    s.Exec,
		Args:    s.Args,
		Restart: s.Restart,
		State:   &state,
	}, nil
}

// UnmarshalYAML implements [yaml.Unmarshaler].
func (s *Service) UnmarshalYAML(node *yaml.Node) error {
	var doc serviceDocument
	if err := node.Decode(&doc); err != nil {
		return err
	}

	*s = Service{
		Name:    doc.Name,
		Exec:    doc.Exec,
		Args:    doc.Args,
		Restart: doc.Restart,
	}

	if doc.State != nil {
		s.state = *doc.State
	}

	return nil
}

// Socket is a placeholder for socket activation. It is parsed and carried
// along but never acted upon.
type Socket struct {
	ID uint32 `yaml:"id"`
}

// Name returns the socket ID as string so sockets can be looked up like
// other components.
func (s Socket) Name() string {
	return strconv.FormatUint(uint64(s.ID), 10)
}
