// Package websocket provides a WebSocket front-end to the echo service.
//
// Browser and WebSocket clients get the exact reply contract the TCP
// side implements: every text message is answered with its upper-cased
// form plus the " CLIENTE" suffix, and the DESCONEXION sentinel is
// acknowledged with "DISCONNECTED!" before the connection is closed.
//
// Architecture:
//
// The package uses a hub-and-spoke model. A central Hub tracks every
// connected client and serializes register/unregister/broadcast through
// its Run loop, so no mutex is needed around the client set. Each client
// connection runs two goroutines: readPump (computes echo replies from
// inbound messages) and writePump (flushes queued replies and keeps the
// connection alive with pings).
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	mux.HandleFunc("/ws", hub.ServeWS)
//
// Admin broadcasts submitted through Hub.Broadcast are delivered to all
// connected WebSocket clients, mirroring the TCP registry broadcast.
package websocket
