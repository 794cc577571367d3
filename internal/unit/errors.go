// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unit

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMountFlag is returned if a mount descriptor contains a flag
	// token that does not resolve to a mount(2) flag.
	ErrUnknownMountFlag = errors.New("unknown mount flag")

	// ErrMissingField is returned if a required descriptor field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrUnitNotFound is returned if no unit with the requested name is
	// loaded.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrMemberNotFound is returned if no unit contains the requested
	// component.
	ErrMemberNotFound = errors.New("member not found")
)

// DescriptorError wraps any error that occurred while reading a unit
// descriptor file.
type DescriptorError struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *DescriptorError) Error() string {
	return fmt.Sprintf("descriptor %s: %v", e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*DescriptorError) Is(other error) bool {
	_, ok := other.(*DescriptorError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *DescriptorError) Unwrap() error {
	return e.Err
}
