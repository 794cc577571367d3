// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ipc implements the control protocol between the rind daemon and
// its clients.
//
// Every message is a frame of a 4 byte big-endian payload length followed by
// the payload. The payload is a CBOR encoded [Message] envelope with a kind
// and an optional string payload. Replies to list requests carry a YAML
// encoded [Snapshot] of the daemon's registry.
package ipc
