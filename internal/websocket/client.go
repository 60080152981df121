package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// The socket is push-only; inbound frames beyond pongs are noise.
	maxInboundSize = 512
	sendBuffer     = 256
)

// Client is one device connection for one user. A user can hold several at
// once; the hub fans a SessionEvent out to all of them.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userId uuid.UUID
	send   chan []byte
}

// ServeWs attaches an upgraded connection to the hub and blocks until the
// peer goes away.
func ServeWs(hub *Hub, conn *websocket.Conn, userId uuid.UUID) {
	client := &Client{
		hub:    hub,
		conn:   conn,
		userId: userId,
		send:   make(chan []byte, sendBuffer),
	}
	hub.register <- client

	go client.writeLoop()
	client.readLoop()
}

// readLoop drains and discards inbound frames. Its real job is detecting the
// close and keeping the read deadline fresh off pongs.
func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket", "Unexpected close", map[string]interface{}{
					"user_id": c.userId,
					"error":   err.Error(),
				})
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
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
