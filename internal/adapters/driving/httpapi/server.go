package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// ShutdownTimeout bounds how long Stop waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Server runs the HTTP listener.
type Server struct {
	mu       sync.Mutex
	addr     string
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer creates a server that will listen on addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		addr: addr,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
		},
		errChan: make(chan error, 1),
	}
}

// Start listens on the configured address and serves in the background.
// If the port is 0, a random available port will be chosen.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// Errors delivers a fatal serve error, if one occurs.
func (s *Server) Errors() <-chan error {
	return s.errChan
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the server, waiting at most ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
