package websocket

import (
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ankpp/echoline/echo"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Matches the TCP side's
	// default receive buffer.
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The bridge serves local tooling; accept any origin.
		return true
	},
}

// Client represents one WebSocket peer of the echo service.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active WebSocket clients and delivers
// broadcasts to them.
type Hub struct {
	clients map[*Client]bool

	// Admin broadcasts destined for every connected client.
	broadcast chan []byte

	// Register requests from clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	connected atomic.Int64
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case payload := <-h.broadcast:
			h.broadcastPayload(payload)
		}
	}
}

// Count returns the number of connected WebSocket clients.
func (h *Hub) Count() int {
	return int(h.connected.Load())
}

// Broadcast delivers payload to every connected client.
func (h *Hub) Broadcast(payload []byte) {
	h.broadcast <- payload
}

// ServeWS upgrades an HTTP request and attaches the peer to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// registerClient adds a client to the hub.
func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	h.connected.Store(int64(len(h.clients)))
	log.Printf("WebSocket client connected from %s (total: %d)",
		client.conn.RemoteAddr(), len(h.clients))
}

// unregisterClient removes a client from the hub.
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.connected.Store(int64(len(h.clients)))
		log.Printf("WebSocket client disconnected (remaining: %d)", len(h.clients))
	}
}

// broadcastPayload fans an admin broadcast out to every client. A client
// whose send queue is full is dropped rather than allowed to stall the
// rest.
func (h *Hub) broadcastPayload(payload []byte) {
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump reads messages from the peer and queues the echo reply for
// each one. On the sentinel command the acknowledgement is queued and the
// pump exits, which unwinds the connection. The connection itself is
// closed by writePump once the queued replies have drained, so the
// acknowledgement is never cut off.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		reply, disconnect := echo.Reply(string(data))
		c.send <- []byte(reply)
		if disconnect {
			return
		}
	}
}

// writePump flushes queued replies to the peer and keeps the connection
// alive with periodic pings. Buffered replies still drain after the hub
// closes the send channel, so a disconnect acknowledgement always reaches
// the peer before the close frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
