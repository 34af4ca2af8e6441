// Package control is the local command channel between the daemon and its
// clients (the overlay, the keybindings and the CLI). Each connection on a
// unix stream socket carries one JSON request line and one JSON response line.
package control

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	defaultMaxPayloadBytes = 8 * 1024
	connTimeout            = 5 * time.Second
)

// Handler serves one validated request.
type Handler interface {
	Handle(ctx context.Context, req Request) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) Response

func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

type Server struct {
	handler Handler
	path    string

	MaxPayloadBytes int

	mu       sync.Mutex
	listener *net.UnixListener
	closed   bool
	wg       sync.WaitGroup
}

func NewServer(handler Handler, socketPath string) *Server {
	return &Server{
		handler:         handler,
		path:            socketPath,
		MaxPayloadBytes: defaultMaxPayloadBytes,
	}
}

func (s *Server) SocketPath() string {
	return s.path
}

// Start binds the socket and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	if s.handler == nil {
		return fmt.Errorf("handler is required")
	}
	if s.path == "" {
		return fmt.Errorf("socket path is required")
	}
	if s.MaxPayloadBytes <= 0 {
		s.MaxPayloadBytes = defaultMaxPayloadBytes
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Chmod(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("chmod socket dir: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	addr, err := net.ResolveUnixAddr("unix", s.path)
	if err != nil {
		return fmt.Errorf("resolve unix addr: %w", err)
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return fmt.Errorf("listen unix: %w", err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.closed = false
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.close()
	}()

	s.wg.Add(1)
	go s.acceptLoop(ctx, ln)

	return nil
}

// Wait blocks until the accept loop and every open connection are done.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) acceptLoop(ctx context.Context, ln *net.UnixListener) {
	defer s.wg.Done()
	for {
		conn, err := ln.AcceptUnix()
		if err != nil {
			if s.isClosed() {
				return
			}
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serve(ctx, conn)
		}()
	}
}

func (s *Server) serve(ctx context.Context, conn *net.UnixConn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	resp := s.respond(ctx, conn)
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_, _ = conn.Write(append(data, '\n'))
}

func (s *Server) respond(ctx context.Context, conn io.Reader) Response {
	payload, err := readPayload(conn, s.MaxPayloadBytes)
	if err != nil {
		return Errorf("%v", err)
	}
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Errorf("malformed request: %v", err)
	}
	if err := req.Validate(); err != nil {
		return Errorf("%v", err)
	}
	return s.handler.Handle(ctx, req)
}

// readPayload reads one newline-terminated (or EOF-terminated) payload of at
// most limit bytes.
func readPayload(r io.Reader, limit int) ([]byte, error) {
	br := bufio.NewReader(io.LimitReader(r, int64(limit)+1))
	line, err := br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read request: %w", err)
	}
	line = bytes.TrimSpace(line)
	if len(line) > limit {
		return nil, fmt.Errorf("request exceeds %d bytes", limit)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf("empty request")
	}
	return line, nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}
