// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package daemon

import "errors"

var (
	// ErrNotListening is returned by [Daemon.Run] if [Daemon.Listen] was
	// not called successfully before.
	ErrNotListening = errors.New("control socket not bound")

	// ErrNotEnabled is returned if a unit is disabled that is not enabled.
	ErrNotEnabled = errors.New("unit not enabled")
)
