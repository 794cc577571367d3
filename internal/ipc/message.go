// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ipc

import (
	"fmt"
	"io"
)

// Kind discriminates messages.
type Kind string

// Message kinds.
//
// Requests are list, start, stop, kill, enable, disable and umount. The daemon
// replies with the kind of the request and a fresh [Snapshot] as payload, or
// with error and the error message as payload. Requests of any other kind are
// answered with unknown.
const (
	KindList    Kind = "list"
	KindStart   Kind = "start"
	KindStop    Kind = "stop"
	KindKill    Kind = "kill"
	KindEnable  Kind = "enable"
	KindDisable Kind = "disable"
	KindUmount  Kind = "umount"
	KindError   Kind = "error"
	KindUnknown Kind = "unknown"
)

var requestKinds = map[Kind]struct{}{
	KindList:    {},
	KindStart:   {},
	KindStop:    {},
	KindKill:    {},
	KindEnable:  {},
	KindDisable: {},
	KindUmount:  {},
}

// IsRequest returns true if the daemon accepts messages of this kind.
func (k Kind) IsRequest() bool {
	_, ok := requestKinds[k]
	return ok
}

// Message is the envelope exchanged over the control socket.
type Message struct {
	Kind    Kind    `cbor:"kind"`
	Payload *string `cbor:"payload,omitempty"`
}

// NewMessage creates a message with the given kind and payload.
func NewMessage(kind Kind, payload string) Message {
	return Message{Kind: kind, Payload: &payload}
}

// NewRequest creates a message without payload.
func NewRequest(kind Kind) Message {
	return Message{Kind: kind}
}

// Errorf creates an error reply.
func Errorf(format string, args ...any) Message {
	return NewMessage(KindError, fmt.Sprintf(format, args...))
}

// Unknown creates the reply for requests of unknown kind.
func Unknown() Message {
	return NewRequest(KindUnknown)
}

// HasPayload returns true if the message carries a payload.
func (m Message) HasPayload() bool {
	return m.Payload != nil
}

// PayloadString returns the payload or an empty string if there is none.
func (m Message) PayloadString() string {
	if m.Payload == nil {
		return ""
	}

	return *m.Payload
}

// Err returns the error reported by a reply, if any.
//
// Error replies are returned as [RemoteError], unknown replies as
// [ErrUnknownKind].
func (m Message) Err() error {
	switch m.Kind {
	case KindError:
		return &RemoteError{Message: m.PayloadString()}
	case KindUnknown:
		return ErrUnknownKind
	default:
		return nil
	}
}

// Encode serializes the message.
func (m Message) Encode() ([]byte, error) {
	data, err := encMode.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	return data, nil
}

// DecodeMessage deserializes a message. Invalid data results in
// [ErrMalformed].
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := decMode.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if msg.Kind == "" {
		return Message{}, fmt.Errorf("%w: empty kind", ErrMalformed)
	}

	return msg, nil
}

// WriteMessage writes the given message as a single frame.
func WriteMessage(w io.Writer, msg Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}

	return WriteFrame(w, data)
}

// ReadMessage reads a single frame and decodes the message in it.
//
// If the frame was read but does not contain a valid message, an error
// wrapping [ErrMalformed] is returned and the stream is positioned at the
// next frame.
func ReadMessage(r io.Reader) (Message, error) {
	data, err := ReadFrame(r)
	if err != nil {
		return Message{}, err
	}

	return DecodeMessage(data)
}
