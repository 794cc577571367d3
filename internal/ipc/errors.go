// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ipc

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameTooLarge is returned if a frame exceeds [MaxFrameSize].
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrMalformed is returned if a frame does not contain a valid
	// [Message].
	ErrMalformed = errors.New("malformed message")

	// ErrUnknownKind is returned if the peer did not understand the kind of
	// a request.
	ErrUnknownKind = errors.New("unknown message kind")

	// ErrSnapshotMismatch is returned if the unit and name lists of a
	// [Snapshot] differ in length.
	ErrSnapshotMismatch = errors.New("snapshot units and names differ in length")

	// ErrMissingPayload is returned if a message has no payload but one is
	// required.
	ErrMissingPayload = errors.New("missing payload")
)

// RemoteError is an error reported by the daemon in an error reply.
type RemoteError struct {
	Message string
}

// Error implements the [error] interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("daemon: %s", e.Message)
}

// Is implements the [errors.Is] interface.
func (*RemoteError) Is(other error) bool {
	_, ok := other.(*RemoteError)
	return ok
}
