// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// StateKind discriminates the variants of [State].
type StateKind int

// Variants of [State].
const (
	KindInactive StateKind = iota
	KindActive
	KindExited
	KindError
)

var stateKindNames = map[StateKind]string{
	KindInactive: "inactive",
	KindActive:   "active",
	KindExited:   "exited",
	KindError:    "error",
}

// String implements [fmt.Stringer].
func (k StateKind) String() string {
	if s, ok := stateKindNames[k]; ok {
		return s
	}

	return "StateKind(" + strconv.Itoa(int(k)) + ")"
}

// State is the runtime state of a [Service].
//
// It is one of Inactive, Active, Exited with an exit code or Error with a
// message. Values are created with [Inactive], [Active], [Exited] and
// [Failed]. The zero value is Inactive.
type State struct {
	kind    StateKind
	code    int
	message string
}

// Inactive returns the state of a service that is not running.
func Inactive() State {
	return State{kind: KindInactive}
}

// Active returns the state of a service with a running process.
func Active() State {
	return State{kind: KindActive}
}

// Exited returns the state of a service whose process terminated with the
// given exit code.
func Exited(code int) State {
	return State{kind: KindExited, code: code}
}

// Failed returns the state of a service that could not be started.
func Failed(message string) State {
	return State{kind: KindError, message: message}
}

// Kind returns the variant of the state.
func (s State) Kind() StateKind {
	return s.kind
}

// ExitCode returns the exit code and true for Exited states.
func (s State) ExitCode() (int, bool) {
	return s.code, s.kind == KindExited
}

// Message returns the error message and true for Error states.
func (s State) Message() (string, bool) {
	return s.message, s.kind == KindError
}

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s.kind {
	case KindExited:
		return fmt.Sprintf("%s(%d)", s.kind, s.code)
	case KindError:
		return fmt.Sprintf("%s(%s)", s.kind, s.message)
	default:
		return s.kind.String()
	}
}

type stateDocument struct {
	Kind    string `yaml:"kind"`
	Code    int    `yaml:"code,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// MarshalYAML implements [yaml.Marshaler].
func (s State) MarshalYAML() (any, error) {
	return stateDocument{
		Kind:    s.kind.String(),
		Code:    s.code,
		Message: s.message,
	}, nil
}

// UnmarshalYAML implements [yaml.Unmarshaler].
func (s *State) UnmarshalYAML(node *yaml.Node) error {
	var doc stateDocument
	if err := node.Decode(&doc); err != nil {
		return err
	}

	for kind, kindName := range stateKindNames {
		if kindName == doc.Kind {
			*s = State{kind: kind, code: doc.Code, message: doc.Message}
			return nil
		}
	}

	return fmt.Errorf("unknown service state %q", doc.Kind)
}
