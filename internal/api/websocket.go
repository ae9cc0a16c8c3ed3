package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/amterp/webslide/internal/deck"
	"github.com/amterp/webslide/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxCommandSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // The server only binds for local use
	},
}

// Message types sent to clients.
const (
	MessageConnected = "connected"
	MessageDeckEvent = "deck_event"
)

// Command types clients may send. They drive the cursor, so a second
// browser tab or a phone can act as a presenter remote.
const (
	CommandNext     = "next"
	CommandPrevious = "previous"
	CommandSelect   = "select"
)

// RemoteDeck is the part of the deck the hub reads on connect and steers
// from client commands.
type RemoteDeck interface {
	Snapshot() model.Presentation
	SetCurrentSlide(index int) bool
	NextSlide() bool
	PreviousSlide() bool
}

// WebSocketHub pushes deck events to every connected browser.
type WebSocketHub struct {
	mu      sync.RWMutex
	clients map[*WebSocketClient]bool
	deck    RemoteDeck
}

// WebSocketClient represents a connected WebSocket client.
type WebSocketClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ClientCommand is the JSON message clients send.
type ClientCommand struct {
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"` // For select
}

// ConnectedData is the payload of the connected message.
type ConnectedData struct {
	Message string        `json:"message"`
	Deck    *DeckResponse `json:"deck,omitempty"`
}

// NewWebSocketHub creates a new WebSocket hub.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[*WebSocketClient]bool),
	}
}

// SetDeck attaches the deck sent to new clients and steered by their
// commands. Without one, clients only receive events.
func (h *WebSocketHub) SetDeck(d RemoteDeck) {
	h.mu.Lock()
	h.deck = d
	h.mu.Unlock()
}

func (h *WebSocketHub) remoteDeck() RemoteDeck {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.deck
}

var _ deck.Observer = (*WebSocketHub)(nil)

// OnDeckEvent implements deck.Observer. It never blocks: slow clients are
// dropped rather than stalling the deck's notification fan-out.
func (h *WebSocketHub) OnDeckEvent(e deck.Event) {
	data, err := json.Marshal(WebSocketMessage{Type: MessageDeckEvent, Data: e})
	if err != nil {
		log.Printf("Failed to marshal deck event: %v", err)
		return
	}
	h.broadcast(data)
}

// broadcast sends a message to all connected clients.
func (h *WebSocketHub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.trySend(client, data)
	}
}

// trySend queues data for a client. A send on a channel closed by
// removeClient after the snapshot is recovered and dropped.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	defer func() {
		_ = recover()
	}()

	select {
	case client.send <- data:
	default:
		// Buffer full: the client is too slow to keep up
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the request and greets the client with the current deck.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &WebSocketClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.addClient(client)

	go client.writePump()
	go client.readPump()

	hello := ConnectedData{Message: "Live updates enabled"}
	if d := h.remoteDeck(); d != nil {
		resp := toDeckResponse(d.Snapshot())
		hello.Deck = &resp
	}
	if data, err := json.Marshal(WebSocketMessage{Type: MessageConnected, Data: hello}); err == nil {
		h.trySend(client, data)
	}
}

// handleCommand applies one client command to the deck. The resulting
// slide-selected event reaches every client, the sender included.
func (h *WebSocketHub) handleCommand(raw []byte) {
	d := h.remoteDeck()
	if d == nil {
		return
	}

	var cmd ClientCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		log.Printf("WebSocket: ignoring malformed command: %v", err)
		return
	}

	switch cmd.Type {
	case CommandNext:
		d.NextSlide()
	case CommandPrevious:
		d.PreviousSlide()
	case CommandSelect:
		if cmd.Index == nil {
			log.Printf("WebSocket: select without index")
			return
		}
		d.SetCurrentSlide(*cmd.Index)
	default:
		log.Printf("WebSocket: unknown command %q", cmd.Type)
	}
}

// readPump reads client commands until the connection drops.
func (c *WebSocketClient) readPump() {
	// Closing send makes writePump exit, and writePump owns the connection
	defer c.hub.removeClient(c)

	c.conn.SetReadLimit(maxCommandSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		c.hub.handleCommand(message)
	}
}

// writePump writes queued messages, one frame each, and pings the client.
func (c *WebSocketClient) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One JSON document per frame; the page parses each frame alone
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

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}
