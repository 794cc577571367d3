// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package mount

import "fmt"

// Errors is a collection of errors that occurred while mounting the mounts of
// the enabled units.
type Errors []error

func (e Errors) Error() string {
	return fmt.Sprintf("mount errors: %q", []error(e))
}

func (Errors) Is(other error) bool {
	_, ok := other.(Errors)
	return ok
}

func (e Errors) Unwrap() []error {
	return e
}
