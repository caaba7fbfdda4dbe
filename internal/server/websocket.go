package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The daemon binds to localhost; the host UI connects from a file:// or
	// app:// origin, so origin checking is not useful here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// changeEvent is the wire format of a clipboard notification.
type changeEvent struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// hub maintains the set of subscribed clients and broadcasts clipboard
// notifications to them.
type hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

// wsClient is a middleman between one websocket connection and the hub.
type wsClient struct {
	hub  *hub
	conn *websocket.Conn
	send chan []byte
}

func newHub() *hub {
	return &hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
	}
}

// stop terminates the run loop and drops all subscribers. Safe to call more
// than once and before run ever started.
func (h *hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			slog.Debug("websocket client connected", "total", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer; drop it rather than stall the monitor.
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// notifyChange broadcasts the raw content of a newly recorded entry as a
// clipboard-changed event. Non-blocking: if the hub is saturated the event is
// dropped, since subscribers refetch the history anyway.
func (h *hub) notifyChange(content string) {
	message, err := json.Marshal(changeEvent{Type: "clipboard-changed", Payload: content})
	if err != nil {
		slog.Warn("failed to marshal clipboard notification", "err", err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		slog.Warn("notification dropped, hub saturated")
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *wsClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// The hub closed the channel.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames and unregisters the client when the
// connection drops.
func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done: // hub already gone, nothing to unregister from
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// serveWs upgrades an HTTP request to a websocket subscription.
func (h *hub) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &wsClient{hub: h, conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
