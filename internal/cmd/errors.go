// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrHelp is returned if help output was requested.
	ErrHelp = errors.New("help requested")

	// ErrConflictingActions is returned if more than one action flag is
	// given.
	ErrConflictingActions = errors.New("conflicting actions")

	// ErrMissingArg is returned if an action lacks the flag naming its
	// target.
	ErrMissingArg = errors.New("missing argument")

	// ErrUnexpectedArgs is returned if positional arguments are given.
	ErrUnexpectedArgs = errors.New("unexpected arguments")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
