package realtime

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/dominoes-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Time allowed to read the next pong from a websocket peer
	pongWait = 2 * pingPeriod

	// Buffer size for outgoing messages
	sendBufferSize = 256

	transportSSE       = "sse"
	transportWebSocket = "websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client represents one connected subscriber
type Client struct {
	id          string
	hub         *Hub
	playerID    model.PlayerID
	transport   string
	send        chan Message
	connectedAt time.Time
}

// NewClient creates a new client for a player
func NewClient(hub *Hub, playerID model.PlayerID, transport string) *Client {
	return &Client{
		id:          uuid.NewString(),
		hub:         hub,
		playerID:    playerID,
		transport:   transport,
		send:        make(chan Message, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the client's connection id
func (c *Client) ID() string {
	return c.id
}

// ServeSSE streams a game's events to a player as server-sent events.
// initial is written first so the subscriber starts from current state.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID, initial []Message) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, playerID, transportSSE)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write(formatSSEMessage("connected", `{"status":"connected","clientId":"`+client.id+`"}`))
	for _, message := range initial {
		if message.deliverableTo(playerID) {
			_, _ = w.Write(formatSSEMessage(message.Event, string(message.Data)))
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(formatSSEMessage(message.Event, string(message.Data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// ServeWS streams a game's events to a player over a websocket. Each
// event is one text message holding the event JSON. Anything the peer
// sends is discarded.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID, initial []Message) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		var handshake websocket.HandshakeError
		if !errors.As(err, &handshake) {
			hub.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		}
		return // Upgrade has already written the error response
	}
	defer func() { _ = ws.Close() }()

	client := NewClient(hub, playerID, transportWebSocket)
	hub.Register(client)
	defer hub.Unregister(client)

	closed := make(chan struct{})
	go readPump(ws, closed)

	for _, message := range initial {
		if !message.deliverableTo(playerID) {
			continue
		}
		if err := writeMessage(ws, websocket.TextMessage, message.Data); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				_ = writeMessage(ws, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := writeMessage(ws, websocket.TextMessage, message.Data); err != nil {
				return
			}

		case <-ticker.C:
			if err := writeMessage(ws, websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			return

		case <-r.Context().Done():
			return
		}
	}
}

// readPump drains the connection so control frames are handled, and
// closes done when the peer goes away
func readPump(ws *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func writeMessage(ws *websocket.Conn, messageType int, data []byte) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteMessage(messageType, data)
}
