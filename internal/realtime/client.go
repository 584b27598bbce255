package realtime

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // no pong within this window = dead connection
	PingPeriod     = (PongWait * 9) / 10 // ping before the pong window expires, slack for jitter
	MaxMessageSize = 512                 // subscribers send nothing meaningful upstream
)

type Client struct {
	ID          string          // unique client ID
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // channel for outbound snapshots
	Hub         *Hub            // reference to the central Hub
}

// constructor new client
func NewClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          id,
		Conn:        conn,
		SendChannel: make(chan []byte, 8),
		Hub:         hub,
	}
}

// Send queues a snapshot for delivery. A subscriber that cannot keep up
// simply misses intermediate snapshots; the next one it reads is still a
// full result set.
func (c *Client) Send(payload []byte) {
	select {
	case c.SendChannel <- payload:
	default:
	}
}

// ReadPump drains the connection to process control frames and detect
// the peer going away. Incoming data frames are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("stream client read error", "client_id", c.ID, "error", err)
			}
			return
		}
	}
}

// WritePump delivers queued snapshots and keeps the heartbeat going.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				// hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
