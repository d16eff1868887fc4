package server

import (
	"errors"
	"io"
	"log"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/ankpp/echoline/echo"
)

// handleClient is the per-connection session loop. It is the only
// goroutine that ever reads from conn. Every exit path deregisters and
// closes the connection; closing an already-closed socket is harmless.
func (s *Server) handleClient(conn net.Conn) {
	addr := conn.RemoteAddr()
	defer func() {
		s.registry.Remove(conn)
		conn.Close()
	}()

	buf := make([]byte, s.cfg.BufferSize)
	for s.running.Load() {
		if timeout := s.cfg.Timeout(); timeout > 0 {
			conn.SetReadDeadline(time.Now().Add(timeout))
		}

		n, err := conn.Read(buf)
		if err != nil {
			s.logReadError(addr, err)
			return
		}
		if n == 0 {
			continue
		}

		message := strings.TrimSpace(string(buf[:n]))
		log.Printf("Received from %s: %s", addr, message)

		reply, disconnect := echo.Reply(message)
		if _, err := conn.Write([]byte(reply)); err != nil {
			log.Printf("Error replying to client %s: %v", addr, err)
			return
		}
		if disconnect {
			log.Printf("Client %s requested disconnect", addr)
			return
		}
	}
}

// logReadError maps a failed session read to its operational log line.
// Every cause ends the session; none of them ends the process.
func (s *Server) logReadError(addr net.Addr, err error) {
	var ne net.Error
	switch {
	case errors.Is(err, io.EOF):
		log.Printf("Client %s disconnected", addr)
	case errors.Is(err, net.ErrClosed):
		// Socket closed under us by Stop; expected during shutdown.
	case errors.Is(err, syscall.ECONNRESET):
		log.Printf("Connection reset by client %s", addr)
	case errors.Is(err, syscall.ECONNABORTED):
		log.Printf("Connection aborted by client %s", addr)
	case errors.As(err, &ne) && ne.Timeout():
		log.Printf("Connection to %s timed out", addr)
	default:
		log.Printf("Error handling client %s: %v", addr, err)
	}
}
