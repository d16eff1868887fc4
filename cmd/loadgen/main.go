// Command loadgen exercises a running echo server with concurrent
// connections and verifies the reply contract on every round trip. It
// prints per-run latency and failure summaries, and finishes each
// connection with the DESCONEXION sentinel so the server sheds the
// sessions cleanly.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	addr     = flag.String("addr", "127.0.0.1:5000", "Echo server address")
	clients  = flag.Int("clients", 5, "Concurrent connections")
	messages = flag.Int("messages", 20, "Messages per connection")
)

// runResult accumulates one connection's outcome.
type runResult struct {
	sent      int
	failed    int
	latencies []time.Duration
}

func main() {
	flag.Parse()

	fmt.Printf("Running %d clients x %d messages against %s\n", *clients, *messages, *addr)

	start := time.Now()
	results := make([]runResult, *clients)

	var wg sync.WaitGroup
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			results[id] = runClient(id)
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	var sent, failed int
	var all []time.Duration
	for _, r := range results {
		sent += r.sent
		failed += r.failed
		all = append(all, r.latencies...)
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Round trips: %d ok, %d failed in %v\n", sent, failed, elapsed.Round(time.Millisecond))
	if len(all) > 0 {
		min, max, total := all[0], all[0], time.Duration(0)
		for _, d := range all {
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
			total += d
		}
		fmt.Printf("Latency min/avg/max: %v / %v / %v\n", min, total/time.Duration(len(all)), max)
		fmt.Printf("Throughput: %.0f msg/s\n", float64(sent)/elapsed.Seconds())
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// runClient performs one connection's worth of verified round trips.
func runClient(id int) runResult {
	var res runResult

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Printf("Client %d: connect failed: %v\n", id, err)
		res.failed = *messages
		return res
	}
	defer conn.Close()

	buf := make([]byte, 1024)
	for j := 0; j < *messages; j++ {
		msg := fmt.Sprintf("loadgen %d message %d", id, j)
		want := strings.ToUpper(msg) + " CLIENTE"

		begin := time.Now()
		if got, err := roundTrip(conn, buf, msg); err != nil {
			fmt.Printf("Client %d: round trip %d failed: %v\n", id, j, err)
			res.failed++
			continue
		} else if got != want {
			fmt.Printf("Client %d: round trip %d got %q, want %q\n", id, j, got, want)
			res.failed++
			continue
		}
		res.sent++
		res.latencies = append(res.latencies, time.Since(begin))
	}

	// Orderly disconnect.
	if got, err := roundTrip(conn, buf, "DESCONEXION"); err != nil {
		fmt.Printf("Client %d: sentinel failed: %v\n", id, err)
	} else if got != "DISCONNECTED!" {
		fmt.Printf("Client %d: sentinel got %q, want 'DISCONNECTED!'\n", id, got)
	}

	return res
}

// roundTrip sends one message and reads one reply.
func roundTrip(conn net.Conn, buf []byte, msg string) (string, error) {
	if _, err := conn.Write([]byte(msg)); err != nil {
		return "", err
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
