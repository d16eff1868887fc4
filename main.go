// Command echoline starts the line-oriented TCP echo server.
//
// The server accepts concurrent client connections, answers each read
// with the upper-cased message plus the " CLIENTE" suffix, and honors
// the DESCONEXION sentinel with a "DISCONNECTED!" acknowledgement. An
// optional admin HTTP listener exposes a small status/broadcast REST API
// and a WebSocket front-end with the same reply contract.
//
// Flags control the listen address, backlog hint, receive buffer size,
// socket timeout, admin listener, debug logging, and version output.
// Settings may also come from a JSON config file and ECHO_* environment
// variables; explicit flags win.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ankpp/echoline/api"
	"github.com/ankpp/echoline/server"
	"github.com/ankpp/echoline/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Echoline Server"
)

// Configuration flags mirror the server config surface; anything left at
// its default defers to the config file / environment.
var (
	configFile = flag.String("config", "", "Path to JSON config file (optional)")
	host       = flag.String("host", "127.0.0.1", "IP address to bind to")
	port       = flag.Int("port", 5000, "Port to listen on")
	maxConns   = flag.Int("max-connections", 5, "Listen backlog hint")
	bufferSize = flag.Int("buffer-size", 1024, "Receive buffer size in bytes")
	timeout    = flag.Int("timeout", 0, "Socket timeout in seconds (0 = blocking)")
	adminAddr  = flag.String("admin-addr", "", "Admin HTTP listen address (empty disables)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	version    = flag.Bool("version", false, "Show version information")
)

// buildConfig layers file, environment and explicitly-set flags into the
// final server configuration.
func buildConfig() (server.Config, error) {
	cfg, err := server.LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}

	// Only flags the user actually passed override file/env settings.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "max-connections":
			cfg.MaxConnections = *maxConns
		case "buffer-size":
			cfg.BufferSize = *bufferSize
		case "timeout":
			cfg.TimeoutSeconds = *timeout
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// main parses flags, wires the transports, and runs until a termination
// signal or a fatal server error.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	log.Printf("Starting %s v%s on %s", AppName, Version, cfg.Addr())

	srv := server.New(cfg)

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	serveErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Start(); err != nil {
			serveErr <- err
		}
	}()

	// Optional admin surface: REST API plus WebSocket front-end.
	var httpServer *http.Server
	if *adminAddr != "" {
		hub := websocket.NewHub()
		go hub.Run()

		httpServer = &http.Server{
			Addr:         *adminAddr,
			Handler:      api.NewServer(srv, hub),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("Admin API: http://%s/api/status", *adminAddr)
			log.Printf("WebSocket: ws://%s/ws", *adminAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Admin server failed: %v", err)
			}
		}()
	}

	select {
	case sig := <-stop:
		log.Printf("Signal %v received, shutting down...", sig)
	case err := <-serveErr:
		log.Printf("Server error: %v", err)
	}

	srv.Stop()

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("Admin server shutdown: %v", err)
		}
	}

	wg.Wait()
}
