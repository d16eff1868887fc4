package server

import (
	"log"
	"net"
	"sync"
)

// Registry is the shared, concurrency-safe store of open client
// connections. Session handlers add and remove their own connection; the
// shutdown path and broadcast operate on snapshots so mutation during
// iteration is never possible.
type Registry struct {
	mu    sync.RWMutex
	conns []net.Conn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers an open connection.
func (r *Registry) Add(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns = append(r.conns, conn)
}

// Remove deregisters a connection. Removing a connection that is not
// registered is a no-op.
func (r *Registry) Remove(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.conns {
		if c == conn {
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			return
		}
	}
}

// Snapshot returns a point-in-time copy of the registered connections,
// safe to iterate while handlers keep mutating the registry.
func (r *Registry) Snapshot() []net.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]net.Conn, len(r.conns))
	copy(out, r.conns)
	return out
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Broadcast writes payload to every registered connection and returns the
// number of successful sends. Per-connection failures are logged and
// swallowed so one dead peer never blocks delivery to the rest.
func (r *Registry) Broadcast(payload []byte) int {
	sent := 0
	for _, conn := range r.Snapshot() {
		if _, err := conn.Write(payload); err != nil {
			log.Printf("Broadcast to %s failed: %v", conn.RemoteAddr(), err)
			continue
		}
		sent++
	}
	return sent
}

// CloseAll closes every registered connection (best-effort) and clears
// the registry. It is the shutdown coordinator's half of connection
// teardown; each session handler observes its socket failing and unwinds
// independently.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := r.conns
	r.conns = nil
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}
