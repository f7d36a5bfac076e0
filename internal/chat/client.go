package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one accepted websocket connection. name is resolved once
// at handshake time and tags everything the connection says.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	name string
}

func newClient(hub *Hub, conn *websocket.Conn, name string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 64),
		name: name,
	}
}

// readPump relays inbound messages to the hub. Any read error,
// including a missed pong deadline on an abruptly dropped peer, ends
// the loop and fires the single unregister for this connection.
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
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		event := ChatEvent{
			Type:    eventTypeChat,
			Name:    c.name,
			Message: string(raw),
		}

		data, err := json.Marshal(event)
		if err != nil {
			continue
		}

		c.hub.broadcast <- data
	}
}

// writePump drains the send buffer to the connection and keeps the
// peer alive with pings. A closed send channel (hub hang-up) sends a
// close frame and exits.
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
