package echo

import "strings"

const (
	// Sentinel is the reserved command a client sends to request an
	// orderly disconnect. Matched case-insensitively after trimming.
	Sentinel = "DESCONEXION"

	// DisconnectReply acknowledges a sentinel command.
	DisconnectReply = "DISCONNECTED!"

	// ReplySuffix is appended to every normal echo reply.
	ReplySuffix = " CLIENTE"
)

// IsSentinel reports whether msg is the disconnect command.
func IsSentinel(msg string) bool {
	return strings.EqualFold(strings.TrimSpace(msg), Sentinel)
}

// Reply computes the server's response to one received message. The
// returned disconnect flag is true when msg was the sentinel command and
// the connection should be closed after the reply is written.
func Reply(msg string) (reply string, disconnect bool) {
	trimmed := strings.TrimSpace(msg)
	if strings.EqualFold(trimmed, Sentinel) {
		return DisconnectReply, true
	}
	return strings.ToUpper(trimmed) + ReplySuffix, false
}
