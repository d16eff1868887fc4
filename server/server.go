package server

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrAlreadyStarted = errors.New("server already started")
	ErrAlreadyStopped = errors.New("server already stopped")
)

// Server owns the listening socket, the running flag and the connection
// registry. It moves through CREATED -> RUNNING -> STOPPED exactly once.
type Server struct {
	cfg      Config
	registry *Registry

	running atomic.Bool
	started atomic.Bool

	mu        sync.Mutex // guards ln, stopped and the RUNNING transition
	ln        net.Listener
	stopped   bool
	startedAt time.Time

	stopOnce sync.Once
}

// New creates a server in the CREATED state. Nothing is bound until
// Start is called.
func New(cfg Config) *Server {
	return &Server{
		cfg:      cfg,
		registry: NewRegistry(),
	}
}

// Registry exposes the connection registry for broadcast and inspection.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// Addr returns the bound listen address, or nil before Start succeeds.
// With port 0 in the config this is how tests learn the real port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Uptime returns how long the server has been running, zero before Start.
func (s *Server) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}

// Start binds the configured address and blocks in the accept loop until
// Stop is called. Each accepted connection is registered and served by
// its own goroutine. Bind failures are fatal: the error is returned and
// the server is left stopped. Go TCP listeners enable address reuse, so
// a quick restart after shutdown does not fail on TIME_WAIT.
func (s *Server) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrAlreadyStopped
	}
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to bind %s: %w", s.cfg.Addr(), err)
	}

	// The RUNNING transition happens under the lock so a concurrent Stop
	// either sees the listener (and closes it) or has already marked the
	// server stopped; the flag is never re-enabled after STOPPED.
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		ln.Close()
		return ErrAlreadyStopped
	}
	s.ln = ln
	s.startedAt = time.Now()
	s.running.Store(true)
	s.mu.Unlock()

	log.Printf("Server started %s (backlog hint %d, buffer %d bytes)",
		ln.Addr(), s.cfg.MaxConnections, s.cfg.BufferSize)

	for s.running.Load() {
		if timeout := s.cfg.Timeout(); timeout > 0 {
			if tl, ok := ln.(*net.TCPListener); ok {
				tl.SetDeadline(time.Now().Add(timeout))
			}
		}

		conn, err := ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue // configured accept timeout, keep trying
			}
			if !s.running.Load() {
				return nil // listener closed by Stop
			}
			log.Printf("Error accepting connection: %v", err)
			continue
		}

		log.Printf("New connection from %s", conn.RemoteAddr())
		s.registry.Add(conn)
		go s.handleClient(conn)
	}

	return nil
}

// Stop is the shutdown coordinator: it flips the running flag, closes
// every registered connection, and closes the listening socket. All
// closes are best-effort. Stop is idempotent and safe to call
// concurrently with the accept loop, live handlers, and signal handlers.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		log.Printf("Shutting down server...")

		s.mu.Lock()
		s.stopped = true
		s.running.Store(false)
		ln := s.ln
		s.mu.Unlock()

		s.registry.CloseAll()

		if ln != nil {
			ln.Close()
		}

		log.Printf("Server shutdown complete")
	})
}
