// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

var (
	// ErrAlreadyActive is returned if a service is requested to start while
	// it tracks a running process.
	ErrAlreadyActive = errors.New("service already active")

	// ErrSpawn is returned if the process of a service could not be started.
	ErrSpawn = errors.New("spawn failed")
)
