// Package echo defines the wire-level reply contract of the echo service.
//
// The protocol is deliberately minimal: clients send raw byte buffers over
// TCP (no framing, no delimiters) and the server answers each read with a
// single reply. Two reply forms exist:
//
//   - Normal echo: the trimmed input upper-cased, followed by " CLIENTE".
//   - Disconnect acknowledgement: the fixed string "DISCONNECTED!", sent
//     when the input equals the sentinel command DESCONEXION
//     (case-insensitive, surrounding whitespace ignored).
//
// The package is pure computation with no I/O so both the TCP session
// handler and the WebSocket bridge share the exact same semantics.
package echo
