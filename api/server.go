package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ankpp/echoline/server"
	"github.com/ankpp/echoline/transport/websocket"
)

// Server is the admin REST server. It reads from the TCP server's
// registry and pushes broadcasts to both transports.
type Server struct {
	tcp    *server.Server
	hub    *websocket.Hub
	router *mux.Router
}

// NewServer creates a new admin API server.
func NewServer(tcp *server.Server, hub *websocket.Hub) *Server {
	s := &Server{
		tcp:    tcp,
		hub:    hub,
		router: mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/connections", s.handleConnections).Methods("GET")
	api.HandleFunc("/broadcast", s.handleBroadcast).Methods("POST")

	// WebSocket front-end.
	s.router.HandleFunc("/ws", s.hub.ServeWS)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Handlers

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	addr := ""
	if a := s.tcp.Addr(); a != nil {
		addr = a.String()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"running":        s.tcp.Running(),
		"uptime_seconds": int(s.tcp.Uptime().Seconds()),
		"addr":           addr,
		"tcp_clients":    s.tcp.Registry().Len(),
		"ws_clients":     s.hub.Count(),
	})
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	snapshot := s.tcp.Registry().Snapshot()

	addrs := make([]string, 0, len(snapshot))
	for _, conn := range snapshot {
		addrs = append(addrs, conn.RemoteAddr().String())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(addrs),
		"connections": addrs,
	})
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	payload := []byte(req.Message)
	sent := s.tcp.Registry().Broadcast(payload)
	s.hub.Broadcast(payload)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sent_tcp":   sent,
		"ws_clients": s.hub.Count(),
	})
}
