package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ankpp/echoline/echo"
)

var (
	ErrConnectionRefused = errors.New("connection refused")
)

// disconnectGrace bounds how long the send loop waits for the server's
// disconnect acknowledgement after the sentinel has been sent.
const disconnectGrace = 2 * time.Second

// Client is an interactive echo client bound to one connection.
type Client struct {
	conn net.Conn
	in   io.Reader
	out  io.Writer

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the echo server at host:port and returns a client
// wired to stdin/stdout. A peer that is not listening yields
// ErrConnectionRefused; any other failure is reported generically.
func Dial(host string, port int) (*Client, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, fmt.Errorf("%w: %s", ErrConnectionRefused, addr)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return New(conn, os.Stdin, os.Stdout), nil
}

// New wraps an established connection with the given input source and
// report sink. Used directly by tests; Dial is the production path.
func New(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{
		conn: conn,
		in:   in,
		out:  out,
		done: make(chan struct{}),
	}
}

// Done is closed when the receive side has ended and the connection is
// closed. Callers treat this as the signal to terminate the process.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close closes the connection. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}

// Run starts the background receiver, then reads input lines and sends
// them until the sentinel is sent, the input is exhausted, or the
// receive side ends. It returns once the session is over.
func (c *Client) Run() error {
	go c.receive()

	fmt.Fprintf(c.out, "Enter your message or type '%s' to quit\n", echo.Sentinel)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-c.done:
				// Receiver ended with this line still in flight; no one
				// will consume it, so unwind instead of leaking.
				return
			}
		}
	}()

	for {
		select {
		case <-c.done:
			// Receiver ended (server closed or errored); nothing more
			// to send.
			return nil

		case line, ok := <-lines:
			if !ok {
				// Input exhausted; drop the connection and let the
				// receiver unwind.
				c.Close()
				c.waitForReceiver()
				return nil
			}
			if line == "" {
				continue
			}

			if _, err := c.conn.Write([]byte(line)); err != nil {
				return fmt.Errorf("failed to send message: %w", err)
			}

			if echo.IsSentinel(line) {
				// Wait for the server's acknowledgement to arrive
				// before tearing down, instead of a fixed sleep.
				c.waitForReceiver()
				return nil
			}
		}
	}
}

// receive is the background read loop and the only reader of the
// connection. It prints incoming data, reports the cause when the stream
// ends, and always closes the connection and signals Done on exit.
func (c *Client) receive() {
	defer func() {
		c.Close()
		fmt.Fprintln(c.out, "Connection closed")
		close(c.done)
	}()

	buf := make([]byte, 1024)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				fmt.Fprintln(c.out, "Server closed the connection")
			case errors.Is(err, net.ErrClosed):
				// Closed locally; already being reported elsewhere.
			case errors.Is(err, syscall.ECONNRESET):
				fmt.Fprintln(c.out, "Server reset the connection")
			default:
				fmt.Fprintf(c.out, "Something went wrong while receiving: %v\n", err)
			}
			return
		}
		fmt.Fprintf(c.out, "Received: %s\n", string(buf[:n]))
	}
}

// waitForReceiver blocks until the receiver observes the server's
// closing response or the grace period elapses.
func (c *Client) waitForReceiver() {
	select {
	case <-c.done:
	case <-time.After(disconnectGrace):
	}
}
