package server

import (
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Client is one connected tab. Writes go through the client mutex
// because the session's engines emit from their own timer goroutines.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	mu        sync.Mutex
}

// Send writes one JSON message to the client's connection.
func (c *Client) Send(message any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Send marshal error: %v", err)
		return
	}

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[WS] Write error for session %s: %v", c.sessionID, err)
	}
}

// Hub tracks connected tabs for the lobby's online-players counter.
// Sessions themselves never talk to each other; the only cross-session
// traffic is the presence broadcast.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan any
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	mu         sync.RWMutex

	// base pads the count so the lobby never looks empty. The padding
	// is decorative, drawn once at startup.
	base int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan any, 100),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		base:       12 + rand.Intn(79),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Session connected: %s (Total: %d)", client.sessionID, total)
			h.Broadcast(h.presenceMessage())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.conn.Close()
				log.Printf("[WS] Session disconnected: %s (Total: %d)", client.sessionID, len(h.clients))
			}
			h.mu.Unlock()
			h.Broadcast(h.presenceMessage())

		case message := <-h.broadcast:
			jsonMessage, err := json.Marshal(message)
			if err != nil {
				log.Printf("[WS] Marshal error: %v", err)
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				go client.Send(json.RawMessage(jsonMessage))
			}
			h.mu.RUnlock()

		case <-h.quit:
			return
		}
	}
}

// Stop ends the Run loop. Connections are torn down by their own
// handlers, not here.
func (h *Hub) Stop() {
	close(h.quit)
}

func (h *Hub) Broadcast(message any) {
	select {
	case h.broadcast <- message:
	default:
		log.Println("[WS] Broadcast channel full, dropping message")
	}
}

// OnlinePlayers is the padded presence count shown in the lobby.
func (h *Hub) OnlinePlayers() int {
	return h.base + h.GetClientCount()
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) presenceMessage() map[string]any {
	return map[string]any{
		"type": "online_players",
		"data": map[string]any{"count": h.OnlinePlayers()},
	}
}

// RegisterClient hands a new connection's client to the Run loop.
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
