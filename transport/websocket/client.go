package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Chat text is capped at 400
	// runes and look bags are small, so 4KB leaves headroom.
	maxMessageSize = 4096
)

// Client represents one websocket connection and its connection-scoped
// identity.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// ID returns the connection-scoped identifier assigned by the hub.
func (c *Client) ID() string {
	return c.id
}

// enqueue queues outbound bytes for the write pump. A client whose send
// buffer is full is considered stalled and is dropped.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		go func() { c.hub.unregister <- c }()
	}
}

// readPump pumps envelopes from the websocket connection into the hub's
// inbound channel. Frames that do not decode as an envelope are discarded;
// the connection stays up.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			continue
		}

		c.hub.inbound <- inboundEvent{client: c, env: env}
	}
}

// writePump pumps queued messages to the websocket connection, one envelope
// per frame, and keeps the connection alive with pings.
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
