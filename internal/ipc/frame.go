// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the maximum allowed payload size of a frame.
const MaxFrameSize = 16 * 1024 * 1024

const frameHeaderLength = 4

// WriteFrame writes the given payload as a single frame.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	frame := make([]byte, frameHeaderLength+len(payload))
	binary.BigEndian.PutUint32(frame[:frameHeaderLength], uint32(len(payload)))
	copy(frame[frameHeaderLength:], payload)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}

// ReadFrame reads a single frame and returns its payload.
//
// A clean end of stream before the header is returned as [io.EOF]. A short
// read within a frame is returned as [io.ErrUnexpectedEOF].
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [frameHeaderLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("read frame header: %w", err)
	}

	length := binary.BigEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return nil, fmt.Errorf("read frame payload: %w", err)
	}

	return payload, nil
}
