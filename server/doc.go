// Package server implements the TCP side of the echo service.
//
// The server follows a goroutine-per-connection model: a single accept
// loop registers each accepted connection in a shared Registry and hands
// it to its own session handler goroutine. Handlers coordinate only
// through the Registry; no other mutable state is shared between them.
//
// Core Types:
//
// Config carries the listening address, backlog hint, receive buffer size
// and optional socket timeout. Server owns the listening socket and the
// running flag. Registry is the concurrency-safe store of open client
// connections, used for broadcast and shutdown.
//
// Lifecycle:
//
// A Server moves through CREATED -> RUNNING -> STOPPED exactly once.
// Start binds the listener and blocks in the accept loop until Stop is
// called (directly or by a signal handler). Stop is idempotent: it flips
// the running flag, closes every registered connection and the listening
// socket, and relies on each blocked read failing so handlers unwind on
// their own. A stopped Server cannot be restarted; create a new one.
//
// Usage:
//
//	srv := server.New(server.DefaultConfig())
//	go func() {
//		if err := srv.Start(); err != nil {
//			log.Fatal(err)
//		}
//	}()
//	// ...
//	srv.Stop()
package server
