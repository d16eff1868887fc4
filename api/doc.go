// Package api provides the operational HTTP surface of the echo service.
//
// Endpoints:
//
//	GET  /api/status      - running flag, uptime, listen address, counts
//	GET  /api/connections - remote addresses of registered TCP clients
//	POST /api/broadcast   - send one payload to every connected client
//	     /ws              - WebSocket front-end (upgrade)
//
// Broadcast requests are JSON:
//
//	{"message": "maintenance in 5 minutes"}
//
// and are delivered both to every registered TCP connection and to every
// WebSocket client. Per-connection delivery failures are swallowed; the
// response reports how many TCP sends succeeded.
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{"error": "error message"}
package api
