package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // chat payloads carry full message text
)

// MessageHandler receives inbound frames from one connection
type MessageHandler func(data []byte)

// Client represents a single WebSocket connection
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	userID  string
	handler MessageHandler
}

// NewClient creates a new WebSocket client. userID may be empty until
// the connection authenticates; SetUserID registers it with the hub.
func NewClient(hub *Hub, conn *websocket.Conn, handler MessageHandler) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		handler: handler,
	}
}

// UserID returns the authenticated user id, empty before authentication
func (c *Client) UserID() string {
	return c.userID
}

// SetUserID marks the connection authenticated and registers it. A
// connection that re-authenticates as a different user is moved out of
// the old identity's map so frames for the old user can't reach it.
func (c *Client) SetUserID(userID string) {
	old := c.userID
	if old == userID {
		return
	}
	c.userID = userID
	if old == "" {
		c.hub.Register(c)
		return
	}
	c.hub.Reassign(c, old)
}

// Send queues an outbound frame. Frames to a slow client are dropped
// rather than blocking the event loop.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

// ReadPump reads frames from the WebSocket and feeds the handler
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		if c.handler != nil {
			c.handler(data)
		}
	}
}

// WritePump sends queued frames and keeps the connection alive
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
