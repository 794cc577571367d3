// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ipc

import (
	"fmt"
	"net"
)

// Client is a connection to a [Server].
type Client struct {
	conn net.Conn
}

// Dial connects to the socket at the given path.
func Dial(path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}

	return &Client{conn: conn}, nil
}

// Request sends the given request and waits for the reply.
func (c *Client) Request(request Message) (Message, error) {
	if err := WriteMessage(c.conn, request); err != nil {
		return Message{}, err
	}

	reply, err := ReadMessage(c.conn)
	if err != nil {
		return Message{}, fmt.Errorf("read reply: %w", err)
	}

	return reply, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send connects to the socket at the given path, sends a single request and
// returns the reply.
func Send(path string, request Message) (Message, error) {
	client, err := Dial(path)
	if err != nil {
		return Message{}, err
	}
	defer client.Close()

	return client.Request(request)
}
