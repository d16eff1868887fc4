// Package client implements the interactive echo client.
//
// A Client wraps one TCP connection shared by two goroutines: the
// background receiver (the only reader) prints whatever the server
// sends, and the foreground loop (the only writer) forwards user input
// lines. Since neither operation is shared, the socket needs no lock.
//
// Typing the sentinel command DESCONEXION ends the session: the line is
// sent verbatim and the client waits for the server's acknowledgement to
// arrive (observed by the receiver) before exiting, with a short fallback
// timer guarding against a stalled peer. There is no reconnect logic;
// once the receive side ends, the client is done.
package client
