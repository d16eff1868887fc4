package server

import (
	"io"
	"net"
	"sync"
	"testing"
)

// pipeConn returns the server half of an in-memory connection plus a
// goroutine draining the client half into out.
func pipeConn(t *testing.T) (server net.Conn, received <-chan []byte) {
	t.Helper()
	srv, cli := net.Pipe()
	t.Cleanup(func() {
		srv.Close()
		cli.Close()
	})

	ch := make(chan []byte, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 1024)
		for {
			n, err := cli.Read(buf)
			if err != nil {
				return
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			ch <- data
		}
	}()
	return srv, ch
}

func TestRegistry_AddRemove(t *testing.T) {
	registry := NewRegistry()

	a, _ := pipeConn(t)
	b, _ := pipeConn(t)

	registry.Add(a)
	registry.Add(b)
	if registry.Len() != 2 {
		t.Fatalf("Expected 2 connections, got %d", registry.Len())
	}

	registry.Remove(a)
	if registry.Len() != 1 {
		t.Errorf("Expected 1 connection after remove, got %d", registry.Len())
	}

	t.Run("remove absent connection is a no-op", func(t *testing.T) {
		registry.Remove(a)
		if registry.Len() != 1 {
			t.Errorf("Expected 1 connection, got %d", registry.Len())
		}
	})
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	registry := NewRegistry()
	a, _ := pipeConn(t)
	registry.Add(a)

	snapshot := registry.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("Expected snapshot of 1, got %d", len(snapshot))
	}

	// Mutating the registry must not affect an already-taken snapshot.
	registry.Remove(a)
	if len(snapshot) != 1 {
		t.Errorf("Snapshot changed after registry mutation")
	}
	if registry.Len() != 0 {
		t.Errorf("Expected empty registry, got %d", registry.Len())
	}
}

func TestRegistry_Broadcast(t *testing.T) {
	registry := NewRegistry()

	a, aReceived := pipeConn(t)
	b, bReceived := pipeConn(t)
	registry.Add(a)
	registry.Add(b)

	sent := registry.Broadcast([]byte("server notice"))
	if sent != 2 {
		t.Fatalf("Expected 2 successful sends, got %d", sent)
	}

	for name, ch := range map[string]<-chan []byte{"a": aReceived, "b": bReceived} {
		got := string(<-ch)
		if got != "server notice" {
			t.Errorf("Connection %s received %q, want 'server notice'", name, got)
		}
	}
}

func TestRegistry_BroadcastSwallowsDeadPeers(t *testing.T) {
	registry := NewRegistry()

	dead, _ := pipeConn(t)
	dead.Close()
	live, liveReceived := pipeConn(t)
	registry.Add(dead)
	registry.Add(live)

	sent := registry.Broadcast([]byte("ping"))
	if sent != 1 {
		t.Errorf("Expected 1 successful send, got %d", sent)
	}
	if got := string(<-liveReceived); got != "ping" {
		t.Errorf("Live connection received %q, want 'ping'", got)
	}
}

func TestRegistry_CloseAll(t *testing.T) {
	registry := NewRegistry()

	var clients []net.Conn
	for i := 0; i < 3; i++ {
		srv, cli := net.Pipe()
		registry.Add(srv)
		clients = append(clients, cli)
	}

	registry.CloseAll()
	if registry.Len() != 0 {
		t.Errorf("Expected empty registry after CloseAll, got %d", registry.Len())
	}

	// Every peer must observe the close rather than hang.
	for i, cli := range clients {
		buf := make([]byte, 1)
		if _, err := cli.Read(buf); err != io.EOF && err != io.ErrClosedPipe {
			t.Errorf("Client %d expected closed-connection error, got %v", i, err)
		}
		cli.Close()
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			srv, cli := net.Pipe()
			defer srv.Close()
			defer cli.Close()

			registry.Add(srv)
			registry.Snapshot()
			registry.Len()
			registry.Remove(srv)
		}()
	}
	wg.Wait()

	if registry.Len() != 0 {
		t.Errorf("Expected empty registry after concurrent churn, got %d", registry.Len())
	}
}
