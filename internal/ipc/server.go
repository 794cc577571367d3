// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Delay bounds between retries of failed accepts.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Handler answers requests.
type Handler interface {
	Handle(request Message) Message
}

// HandlerFunc adapts a function to a [Handler].
type HandlerFunc func(request Message) Message

// Handle implements [Handler].
func (f HandlerFunc) Handle(request Message) Message {
	return f(request)
}

// Server serves requests on a unix stream socket.
//
// Every connection is served by its own goroutine for as long as the client
// keeps it open. Requests of a kind that is not a request kind are answered
// with an unknown reply without calling the handler.
type Server struct {
	logger   *zap.Logger
	handler  Handler
	listener net.Listener
	path     string

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// Listen binds the socket at the given path. A file present at the path is
// removed first.
func Listen(path string, handler Handler, logger *zap.Logger) (*Server, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}

	logger.Info("listening", zap.String("socket", path))

	return &Server{
		logger:   logger,
		handler:  handler,
		listener: listener,
		path:     path,
		conns:    make(map[net.Conn]struct{}),
	}, nil
}

// Path returns the path of the socket.
func (s *Server) Path() string {
	return s.path
}

// Serve accepts connections until the given context is done. It then closes
// the listener and all open connections and waits for their goroutines to
// return.
//
// Failed accepts are logged and retried with increasing delay, so running out
// of file descriptors does not stop the server.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.listener.Close()
	})
	defer stop()

	defer s.closeConns()

	var delay time.Duration

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			delay = min(max(2*delay, minAcceptDelay), maxAcceptDelay)
			s.logger.Warn("accept failed",
				zap.Error(err),
				zap.Duration("retry_in", delay),
			)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}

			continue
		}

		delay = 0

		s.track(conn)

		go s.serveConn(conn)
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conns[conn] = struct{}{}
	s.wg.Add(1)
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, conn)
	s.wg.Done()
}

func (s *Server) closeConns() {
	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.untrack(conn)
	defer conn.Close()

	for {
		request, err := ReadMessage(conn)
		if errors.Is(err, ErrMalformed) {
			s.logger.Warn("skipping malformed request", zap.Error(err))
			continue
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("closing connection", zap.Error(err))
			}

			return
		}

		if err := WriteMessage(conn, s.handle(request)); err != nil {
			s.logger.Debug("closing connection", zap.Error(err))
			return
		}
	}
}

func (s *Server) handle(request Message) Message {
	if !request.Kind.IsRequest() {
		s.logger.Debug("unknown request kind", zap.String("kind", string(request.Kind)))
		return Unknown()
	}

	return s.handler.Handle(request)
}
